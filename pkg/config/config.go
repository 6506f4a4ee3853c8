// Package config resolves the values substituted into the node manifests.
//
// Every value comes from an environment variable of the same name. There are
// no defaults: an unset variable stays unset and the caller decides whether
// that is an error.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable names.
const (
	DockerRegistry = "DOCKER_REGISTRY"
	DockerRepo     = "DOCKER_REPO"
	NewNodeSC      = "NEW_NODE_SC"
	ShareSC        = "SHARE_SC"
	BackupNode     = "BACKUP_NODE"
	NewNode        = "NEW_NODE"
	STSName        = "STS_NAME"
	Args           = "ARGS"
)

// Keys lists every recognised key in a stable order.
var Keys = []string{
	DockerRegistry,
	DockerRepo,
	NewNodeSC,
	ShareSC,
	BackupNode,
	NewNode,
	STSName,
	Args,
}

// Values is an immutable snapshot of the configuration.
type Values struct {
	m map[string]string
}

// New builds Values from a map; keys absent from m are unset.
func New(m map[string]string) Values {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Values{m: cp}
}

// Load reads every key from v. Keys are bound to the environment variable of
// the same name, so a config file read into v only fills what the
// environment leaves unset. A variable exported as the empty string counts
// as set.
func Load(v *viper.Viper) (Values, error) {
	v.AllowEmptyEnv(true)
	m := make(map[string]string, len(Keys))
	for _, key := range Keys {
		if err := v.BindEnv(key, key); err != nil {
			return Values{}, fmt.Errorf("binding %s: %w", key, err)
		}
		if v.IsSet(key) {
			m[key] = v.GetString(key)
		}
	}
	return Values{m: m}, nil
}

// Lookup returns the value of key and whether it was set.
func (v Values) Lookup(key string) (string, bool) {
	s, ok := v.m[key]
	return s, ok
}

// Get returns the value of key, or "" when unset.
func (v Values) Get(key string) string {
	return v.m[key]
}

// Missing returns the keys from keys that are unset, sorted and de-duplicated.
func (v Values) Missing(keys ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, k := range keys {
		if _, ok := v.m[k]; ok || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// String renders the set keys as KEY=value pairs in Keys order.
func (v Values) String() string {
	var parts []string
	for _, k := range Keys {
		if s, ok := v.m[k]; ok {
			parts = append(parts, k+"="+s)
		}
	}
	return strings.Join(parts, " ")
}
