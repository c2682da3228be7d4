//go:build windows

package config

// mapEnvKey translates the unix variable names used in sample configs.
func mapEnvKey(key string) string {
	switch key {
	case "HOSTNAME":
		return "COMPUTERNAME"
	case "USER":
		return "USERNAME"
	case "HOME":
		return "USERPROFILE"
	}
	return key
}
