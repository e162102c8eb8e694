package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens an http or https URL in the user's default browser.
// Other schemes are refused so a crafted link cannot launch local files.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser: refusing to open %q", rawURL)
	}
	name, args, err := command(runtime.GOOS, rawURL)
	if err != nil {
		return err
	}
	return start(name, args...)
}

func command(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}
