package models

import (
	"sort"
	"strings"
)

// Permission string'leri "resource:action" biçimindedir; action read veya write.
//
// Bir client'a verilen izin g, gereken izin r'yi şu durumlarda karşılar:
//
//	g == r                 → birebir
//	g == "*"               → her şey
//	g == "<resource>:*"    → o kaynağın tüm action'ları
//	g == "data:<action>"   → tüm veri kaynaklarında o action
//
// write, read'i KAPSAMAZ: sadece yazma izni olan client okuyamaz.
const (
	ActionRead  = "read"
	ActionWrite = "write"

	PermWildcard = "*"
	DataResource = "data"
)

// Permission, resource ve action'dan izin string'i üretir: Permission("asset", "write") → "asset:write".
func Permission(resource, action string) string {
	return resource + ":" + action
}

// PermissionSet, bir client'ın sahip olduğu izinler.
type PermissionSet []string

// Has, gereken izni karşılayan bir izin var mı kontrol eder.
func (s PermissionSet) Has(required string) bool {
	resource, action, ok := strings.Cut(required, ":")
	if !ok {
		// "*" dışında gereken izinler her zaman resource:action biçimindedir
		return s.contains(required) || s.contains(PermWildcard)
	}

	for _, g := range s {
		switch g {
		case required, PermWildcard, resource + ":*", DataResource + ":" + action:
			return true
		}
	}
	return false
}

func (s PermissionSet) contains(p string) bool {
	for _, g := range s {
		if g == p {
			return true
		}
	}
	return false
}

// NormalizePermissions, trim + lower-case + tekrarları atar; sıralı döner.
func NormalizePermissions(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
