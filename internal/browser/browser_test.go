package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpener_Command(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		browser  string
		wantCmd  string
		wantArgs []string
	}{
		{"darwin default", "darwin", "", "open", []string{"https://x"}},
		{"darwin named", "darwin", "Safari", "open", []string{"-a", "Safari", "https://x"}},
		{"linux default", "linux", "", "xdg-open", []string{"https://x"}},
		{"linux named", "linux", "firefox", "firefox", []string{"https://x"}},
		{"windows default", "windows", "", "rundll32", []string{"url.dll,FileProtocolHandler", "https://x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{Name: tt.browser, GOOS: tt.goos}
			cmd, args := o.Command("https://x")
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOpener_Open(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := New("", nil)
	o.GOOS = "linux"
	o.Run = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	require.NoError(t, o.Open("https://example.com"))
	assert.Equal(t, "xdg-open", gotName)
	assert.Equal(t, []string{"https://example.com"}, gotArgs)
}

func TestOpener_OpenFailure(t *testing.T) {
	o := New("", nil)
	o.Run = func(string, ...string) error { return errors.New("no such file") }

	err := o.Open("https://example.com")
	assert.ErrorContains(t, err, "no such file")
}
