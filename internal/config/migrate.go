// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nimbus Launcher Contributors

package config

import (
	"reflect"
	"strings"
)

// opaquePaths holds the dot-joined JSON paths of subtrees the migrator
// must not recurse into. Built once from the Document type's merge tags
// so new opaque fields are covered by declaration, not by editing a
// name list here.
var opaquePaths = collectOpaquePaths(reflect.TypeOf(Document{}), "")

func collectOpaquePaths(t reflect.Type, prefix string) map[string]bool {
	out := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := jsonFieldName(f)
		if name == "" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if f.Tag.Get("merge") == "opaque" {
			out[path] = true
			continue
		}
		if f.Type.Kind() == reflect.Struct {
			for p := range collectOpaquePaths(f.Type, path) {
				out[p] = true
			}
		}
	}
	return out
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

// Reconcile additively merges the default document into a loaded one.
// For every key in def that is absent from loaded, the default value is
// copied in. When both sides hold an object and the path is not opaque,
// the merge recurses field by field. Present scalars, arrays, opaque
// subtrees, and shape mismatches are left exactly as loaded; nothing is
// ever deleted or overwritten. Returns the reconciled document.
func Reconcile(def, loaded map[string]any) map[string]any {
	if loaded == nil {
		loaded = make(map[string]any)
	}
	reconcileAt(def, loaded, "")
	return loaded
}

func reconcileAt(def, loaded map[string]any, prefix string) {
	for key, defVal := range def {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		loadedVal, present := loaded[key]
		if !present {
			loaded[key] = defVal
			continue
		}
		defMap, defIsMap := defVal.(map[string]any)
		loadedMap, loadedIsMap := loadedVal.(map[string]any)
		if defIsMap && loadedIsMap && !opaquePaths[path] {
			reconcileAt(defMap, loadedMap, path)
		}
	}
}

// PatchAuthServerURL is the one named backward-compatibility patch run
// after reconciliation: documents written before the auth server
// setting existed get the canonical default endpoint.
func PatchAuthServerURL(doc map[string]any) {
	settings, ok := doc["settings"].(map[string]any)
	if !ok {
		return
	}
	launcher, ok := settings["launcher"].(map[string]any)
	if !ok {
		return
	}
	if url, _ := launcher["authServerURL"].(string); url == "" {
		launcher["authServerURL"] = DefaultAuthServerURL
	}
}
