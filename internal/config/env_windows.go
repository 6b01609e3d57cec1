//go:build windows

package config

// mapEnvKey lets one config file use Unix variable names on Windows hosts.
func mapEnvKey(key string) string {
	switch key {
	case "HOSTNAME":
		return "COMPUTERNAME"
	case "HOME":
		return "USERPROFILE"
	}
	return key
}
