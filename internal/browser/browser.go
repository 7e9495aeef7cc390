// Package browser opens URLs in the operator's web browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// Runner starts a command without waiting for it to finish.
type Runner func(name string, args ...string) error

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Opener launches a browser. Name selects a specific browser: an
// application name on macOS ("Safari"), an executable elsewhere. An empty
// Name uses the platform default handler.
type Opener struct {
	Name   string
	GOOS   string
	Run    Runner
	Logger *zap.Logger
}

// New returns an Opener for the current platform.
func New(name string, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{
		Name:   name,
		GOOS:   runtime.GOOS,
		Run:    startDetached,
		Logger: logger,
	}
}

// Command returns the program and arguments used to open url.
func (o *Opener) Command(url string) (string, []string) {
	switch o.GOOS {
	case "darwin":
		if o.Name != "" {
			return "open", []string{"-a", o.Name, url}
		}
		return "open", []string{url}
	case "windows":
		if o.Name != "" {
			return o.Name, []string{url}
		}
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		if o.Name != "" {
			return o.Name, []string{url}
		}
		return "xdg-open", []string{url}
	}
}

// Open launches the browser on url. Failures are reported but nothing
// waits for the browser to exit.
func (o *Opener) Open(url string) error {
	name, args := o.Command(url)
	o.Logger.Debug("opening browser", zap.String("cmd", name), zap.String("url", url))

	if err := o.Run(name, args...); err != nil {
		return fmt.Errorf("opening %s with %s: %w", url, name, err)
	}
	return nil
}
