package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
)

// NormalizeTagName trims surrounding space and case-folds s, so "Example.COM " and
// "example.com" select the same tag.
func NormalizeTagName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func validateShape(length int, typ model.PasswordType) error {
	if !model.ValidLength(length) {
		return errs.InvalidInput("length",
			fmt.Sprintf("must be within %d..%d", model.MinPasswordLength, model.MaxPasswordLength))
	}
	if !typ.Valid() {
		return errs.InvalidInput("type", "unknown password type")
	}
	return nil
}
