package identity

import (
	"context"
	"errors"
	"fmt"
	"os/user"

	"stockwell/internal/catalog"
)

// ErrUnknownUser indicates the login has no record in the user directory.
var ErrUnknownUser = errors.New("user not found in directory")

// Service resolves the permission group for a login.
type Service interface {
	PermissionGroup(ctx context.Context, login string) (string, error)
}

// CurrentLogin returns the operating system login of the invoking user.
func CurrentLogin() (string, error) {
	current, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("resolve current user: %w", err)
	}
	return current.Username, nil
}

// Directory looks users up in the catalog's HumanUser records.
type Directory struct {
	Store catalog.Service
}

// NewDirectory constructs a Directory backed by the given catalog store.
func NewDirectory(store catalog.Service) *Directory {
	return &Directory{Store: store}
}

// PermissionGroup implements Service. The permission rule set comes back as
// a linked entity; only its name matters here.
func (d *Directory) PermissionGroup(ctx context.Context, login string) (string, error) {
	entity, err := d.Store.FindOne(ctx, catalog.TypeUser,
		[]catalog.Filter{catalog.Is("login", login)},
		[]string{"permission_rule_set"},
	)
	if err != nil {
		return "", fmt.Errorf("look up user %q: %w", login, err)
	}
	if entity == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownUser, login)
	}

	ruleSet := entity.Fields["permission_rule_set"]
	switch value := ruleSet.(type) {
	case map[string]any:
		if name, ok := value["name"].(string); ok && name != "" {
			return name, nil
		}
	case string:
		if value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("user %s has no permission rule set", login)
}

var _ Service = (*Directory)(nil)
