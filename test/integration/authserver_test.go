// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// authServer is an in-memory auth service covering the five endpoints
// the launcher speaks. Tokens are simple counters so tests can assert
// on rotation.
type authServer struct {
	mu         sync.Mutex
	users      map[string]string
	access     map[string]string // access token -> username
	refresh    map[string]string // refresh token -> username
	seq        int
	rotate     bool // issue a new refresh token on every refresh
	httpServer *httptest.Server
}

func newAuthServer() *authServer {
	s := &authServer{
		users:   map[string]string{},
		access:  map[string]string{},
		refresh: map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/me", s.handleMe)
	mux.HandleFunc("/api/auth/refresh", s.handleRefresh)
	mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.httpServer = httptest.NewServer(mux)
	return s
}

func (s *authServer) URL() string { return s.httpServer.URL }
func (s *authServer) Close()      { s.httpServer.Close() }

func (s *authServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[body["username"]]; ok {
		reject(w, http.StatusConflict, "username taken")
		return
	}
	s.users[body["username"]] = body["password"]
	_, _ = w.Write([]byte("{}"))
}

func (s *authServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users[body["username"]] != body["password"] || body["password"] == "" {
		reject(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	access, refresh := s.issue(body["username"])
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access":  access,
		"refresh": refresh,
		"user":    map[string]string{"username": body["username"]},
	})
}

func (s *authServer) handleMe(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.access[token]
	if !ok {
		reject(w, http.StatusUnauthorized, "token expired")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"username": user})
}

func (s *authServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.refresh[body["refresh"]]
	if !ok {
		reject(w, http.StatusUnauthorized, "refresh token revoked")
		return
	}
	resp := map[string]string{"access": s.nextToken("access", user)}
	if s.rotate {
		delete(s.refresh, body["refresh"])
		resp["refresh"] = s.nextToken("refresh", user)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *authServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, body["refresh"])
	_, _ = w.Write([]byte("{}"))
}

// issue mints a fresh token pair for a user. Callers hold the lock.
func (s *authServer) issue(user string) (access, refresh string) {
	return s.nextToken("access", user), s.nextToken("refresh", user)
}

func (s *authServer) nextToken(kind, user string) string {
	s.seq++
	token := kind + "-" + user + "-" + strconv.Itoa(s.seq)
	if kind == "access" {
		s.access[token] = user
	} else {
		s.refresh[token] = user
	}
	return token
}

// expireAccess revokes every outstanding access token.
func (s *authServer) expireAccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = map[string]string{}
}

// revokeRefresh revokes every outstanding refresh token.
func (s *authServer) revokeRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = map[string]string{}
}

func decode(r *http.Request) map[string]string {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

func reject(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
