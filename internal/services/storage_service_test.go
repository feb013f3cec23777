package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/joba/internal/core/errs"
)

func TestStorageSaveAndGet(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewStorageService(store, []string{".pdf", ".txt"}, 1<<20)
	ctx := context.Background()

	blobID, err := svc.Save(ctx, []byte("hello"), "notes.txt", "user-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(blobID, "uploads/"))
	assert.True(t, strings.HasSuffix(blobID, ".txt"))

	obj := store.objects[blobID]
	assert.Equal(t, "notes.txt", obj.Filename)
	assert.Equal(t, "user-1", obj.OwnerID)

	data, filename, err := svc.Get(ctx, blobID)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "notes.txt", filename)
}

func TestStorageSaveValidation(t *testing.T) {
	svc := NewStorageService(newFakeObjectStore(), []string{".pdf"}, 4)
	ctx := context.Background()

	// Extension check is case-insensitive.
	_, err := svc.Save(ctx, []byte("x"), "CV.PDF", "user-1")
	require.NoError(t, err)

	_, err = svc.Save(ctx, []byte("x"), "run.exe", "user-1")
	assert.True(t, errs.Is(err, errs.KindValidation))

	_, err = svc.Save(ctx, []byte("toobig"), "cv.pdf", "user-1")
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestStorageGetMissing(t *testing.T) {
	svc := NewStorageService(newFakeObjectStore(), []string{".pdf"}, 1<<20)

	_, _, err := svc.Get(context.Background(), "uploads/nope.pdf")
	assert.True(t, errs.Is(err, errs.KindNotFound))
}
