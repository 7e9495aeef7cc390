package credential

import (
	"errors"
	"fmt"

	"github.com/nhle/seqmail/internal/model"
)

// Getter looks up a stored credential. Get satisfies it.
type Getter func(key string) (string, error)

// KeyFor maps a service name used on the command line to its keyring key.
func KeyFor(service string) (string, error) {
	switch service {
	case "jmap":
		return KeyJMAPToken, nil
	case "todoist":
		return KeyTodoistKey, nil
	default:
		return "", fmt.Errorf("unknown service %q (want jmap or todoist)", service)
	}
}

// FillMissing copies tokens from the keyring into cfg for every secret the
// settings file left empty. A key absent from the keyring is not an error;
// the config is validated afterwards.
func FillMissing(cfg *model.AppConfig, get Getter) error {
	fields := []struct {
		key   string
		value *string
	}{
		{KeyJMAPToken, &cfg.JMAP.Token},
		{KeyTodoistKey, &cfg.Todoist.Key},
	}

	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		v, err := get(f.key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		*f.value = v
	}

	return nil
}
