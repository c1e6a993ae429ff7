// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/nimbuslauncher/nimbuslauncher/internal/account"
	"github.com/nimbuslauncher/nimbuslauncher/internal/authapi"
	"github.com/nimbuslauncher/nimbuslauncher/internal/config"
	"github.com/nimbuslauncher/nimbuslauncher/internal/session"
)

// launcherEnv is one fully wired launcher instance over a throwaway
// config directory, the way the CLI wires it at startup.
type launcherEnv struct {
	dir      string
	store    *config.Store
	registry *account.Registry
	manager  *session.Manager
}

func newLauncherEnv(dir, serverURL string) *launcherEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := config.NewStore(
		filepath.Join(dir, "config", "config.json"),
		filepath.Join(dir, "legacy", "config.json"),
		filepath.Join(dir, "data"),
		logger,
	)
	Expect(store.Load()).To(Succeed())

	registry := account.NewRegistry(store)
	client := authapi.NewHTTPClient(serverURL, nil)
	return &launcherEnv{
		dir:      dir,
		store:    store,
		registry: registry,
		manager:  session.NewManager(store, registry, client, logger),
	}
}

// reopen simulates a launcher restart: a fresh store over the same
// config directory.
func (e *launcherEnv) reopen(serverURL string) *launcherEnv {
	return newLauncherEnv(e.dir, serverURL)
}

var _ = Describe("Session lifecycle", func() {
	var (
		ctx  context.Context
		auth *authServer
		env  *launcherEnv
	)

	BeforeEach(func() {
		ctx = context.Background()
		auth = newAuthServer()
		DeferCleanup(auth.Close)
		env = newLauncherEnv(GinkgoT().TempDir(), auth.URL())
	})

	Describe("first launch", func() {
		It("materializes a default document and marks the launch", func() {
			Expect(env.store.IsFirstLaunch()).To(BeTrue())
			Expect(env.store.Document().Accounts).To(BeEmpty())
			Expect(env.store.Document().Settings.Launcher.AuthServerURL).NotTo(BeEmpty())
		})

		It("does not mark the second launch", func() {
			Expect(env.reopen(auth.URL()).store.IsFirstLaunch()).To(BeFalse())
		})
	})

	Describe("register and login", func() {
		BeforeEach(func() {
			Expect(env.manager.Register(ctx, "bob", "pw", "bob@example.com")).To(Succeed())
		})

		It("stores a selected account that survives a restart", func() {
			acct, err := env.manager.Login(ctx, "bob", "pw")
			Expect(err).NotTo(HaveOccurred())

			restarted := env.reopen(auth.URL())
			stored := restarted.registry.Selected()
			Expect(stored).NotTo(BeNil())
			Expect(stored.ID).To(Equal(acct.ID))
			Expect(stored.DisplayName).To(Equal("bob"))
			Expect(*stored.AccessToken).To(Equal(*acct.AccessToken))
		})

		It("derives the same account id on every login", func() {
			first, err := env.manager.Login(ctx, "bob", "pw")
			Expect(err).NotTo(HaveOccurred())

			second, err := env.manager.Login(ctx, "bob", "pw")
			Expect(err).NotTo(HaveOccurred())

			Expect(second.ID).To(Equal(first.ID))
			Expect(env.registry.List()).To(HaveLen(1))
		})

		It("rejects a wrong password without storing anything", func() {
			_, err := env.manager.Login(ctx, "bob", "nope")
			Expect(err).To(HaveOccurred())
			Expect(authapi.IsRequestRejected(err)).To(BeTrue())
			Expect(env.registry.List()).To(BeEmpty())
		})
	})

	Describe("session validation", func() {
		BeforeEach(func() {
			Expect(env.manager.Register(ctx, "bob", "pw", "")).To(Succeed())
			_, err := env.manager.Login(ctx, "bob", "pw")
			Expect(err).NotTo(HaveOccurred())
		})

		It("accepts a live session", func() {
			Expect(env.manager.ValidateSelected(ctx)).To(BeTrue())
		})

		It("refreshes an expired access token and persists the result", func() {
			before := *env.registry.Selected().AccessToken
			auth.expireAccess()

			Expect(env.manager.ValidateSelected(ctx)).To(BeTrue())

			after := *env.registry.Selected().AccessToken
			Expect(after).NotTo(Equal(before))

			restarted := env.reopen(auth.URL())
			Expect(*restarted.registry.Selected().AccessToken).To(Equal(after))
		})

		It("stores a rotated refresh token", func() {
			auth.rotate = true
			before := *env.registry.Selected().RefreshToken
			auth.expireAccess()

			Expect(env.manager.ValidateSelected(ctx)).To(BeTrue())
			Expect(*env.registry.Selected().RefreshToken).NotTo(Equal(before))

			// The rotated pair keeps working on the next expiry
			auth.expireAccess()
			Expect(env.manager.ValidateSelected(ctx)).To(BeTrue())
		})

		It("requires a fresh login when the refresh token is revoked", func() {
			auth.expireAccess()
			auth.revokeRefresh()

			Expect(env.manager.ValidateSelected(ctx)).To(BeFalse())

			_, err := env.manager.Login(ctx, "bob", "pw")
			Expect(err).NotTo(HaveOccurred())
			Expect(env.manager.ValidateSelected(ctx)).To(BeTrue())
		})
	})

	Describe("account removal", func() {
		BeforeEach(func() {
			for _, user := range []string{"alice", "bob"} {
				Expect(env.manager.Register(ctx, user, "pw", "")).To(Succeed())
				_, err := env.manager.Login(ctx, user, "pw")
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("reselects a remaining account", func() {
			selected := env.registry.Selected()
			Expect(env.manager.RemoveAccount(ctx, selected.ID)).To(Succeed())

			remaining := env.registry.Selected()
			Expect(remaining).NotTo(BeNil())
			Expect(remaining.ID).NotTo(Equal(selected.ID))
		})

		It("clears selection and client token with the last account", func() {
			for _, acct := range env.registry.List() {
				Expect(env.manager.RemoveAccount(ctx, acct.ID)).To(Succeed())
			}

			restarted := env.reopen(auth.URL())
			Expect(restarted.registry.SelectedID()).To(BeNil())
			Expect(restarted.store.Document().ClientToken).To(BeNil())
		})

		It("removes locally even when the server is gone", func() {
			auth.Close()
			acct := env.registry.Selected()

			Expect(env.manager.RemoveAccount(ctx, acct.ID)).To(Succeed())
			Expect(env.registry.Get(acct.ID)).To(BeNil())
		})
	})

	Describe("document resilience", func() {
		It("self-heals a corrupt document without marking first launch", func() {
			Expect(env.manager.Register(ctx, "bob", "pw", "")).To(Succeed())
			_, err := env.manager.Login(ctx, "bob", "pw")
			Expect(err).NotTo(HaveOccurred())

			Expect(os.WriteFile(env.store.Path(), []byte("{ not json"), 0o600)).To(Succeed())

			restarted := env.reopen(auth.URL())
			Expect(restarted.store.IsFirstLaunch()).To(BeFalse())
			Expect(restarted.registry.List()).To(BeEmpty())
		})

		It("relocates a legacy document before loading", func() {
			legacy := filepath.Join(env.dir, "legacy", "config.json")
			Expect(os.MkdirAll(filepath.Dir(legacy), 0o700)).To(Succeed())

			Expect(env.manager.Register(ctx, "bob", "pw", "")).To(Succeed())
			_, err := env.manager.Login(ctx, "bob", "pw")
			Expect(err).NotTo(HaveOccurred())

			// Move the saved document back to the legacy location
			Expect(os.Rename(env.store.Path(), legacy)).To(Succeed())

			restarted := env.reopen(auth.URL())
			Expect(restarted.registry.Selected()).NotTo(BeNil())
			Expect(legacy).NotTo(BeAnExistingFile())
		})
	})
})
