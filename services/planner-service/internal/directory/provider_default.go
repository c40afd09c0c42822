//go:build !protogen

package directory

import (
	"log/slog"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
)

func NewUserDirectory(_ *slog.Logger, store planner.UserStore, _ string) (planner.UserStore, error) {
	return NewLocalDirectory(store), nil
}
