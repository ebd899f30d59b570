package store

import (
	"context"
	"testing"

	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/store/ch"
)

func TestCHAdapter_RejectsInsertShape(t *testing.T) {
	t.Parallel()

	a := newCHAdapter(ch.New(nil))
	err := a.Insert(context.Background(), "t", []string{"x"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}
	if err := a.Insert(context.Background(), "t", [][]any{}); err != nil {
		t.Fatalf("empty rows should be a no-op: %v", err)
	}
}
