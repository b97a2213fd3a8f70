package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Desktop pops a local OS notification. Best-effort: unsupported platforms
// and exec failures are silently ignored.
func Desktop(title, message string) {
	switch runtime.GOOS {
	case "darwin":
		msg := strings.NewReplacer(`"`, `\"`, `'`, `\'`).Replace(message)
		ttl := strings.ReplaceAll(title, `"`, `\"`)
		script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "Glass"`, msg, ttl)
		_ = exec.Command("osascript", "-e", script).Run()
	case "linux":
		_ = exec.Command("notify-send", title, message).Run()
	}
}
