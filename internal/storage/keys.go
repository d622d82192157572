package storage

import "strings"

func joinPrefix(prefix, name string) string {
	name = strings.TrimPrefix(name, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func trimPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, prefix+"/")
}
