package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo describes this process to the server so it shows up in system.query_log
// name is the product, e.g. "scheduling"; tag is the binary role, e.g. "api"
func BuildClientInfo(name, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()

	type kv = struct{ Name, Version string }
	var products []kv
	add := func(n, v string) {
		if v = strings.TrimSpace(v); v != "" {
			products = append(products, kv{Name: n, Version: v})
		}
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "scheduling"
	}
	add(name, tag)
	add("go", runtime.Version())
	add("commit", vcsShortSHA())
	add("host", host)

	return clickhouse.ClientInfo{Products: products}
}

func vcsShortSHA() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}
