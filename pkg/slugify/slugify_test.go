package slugify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vinpuli/archscribe/pkg/slugify"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "user-service", slugify.Slug("User Service!!"))
	assert.Equal(t, "a-b-c", slugify.Slug("a__b--c"))
}

func TestSlugCapped(t *testing.T) {
	assert.Equal(t, "one-two-three", slugify.SlugCapped("one two three four five six", 3))
	assert.Equal(t, "one-two", slugify.SlugCapped("one two", 6))
}
