package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectNames(t *testing.T) {
	t.Run("Фото поста лежат под префиксом поста", func(t *testing.T) {
		name := photoObject(42, "Sunset.PNG")

		assert.True(t, strings.HasPrefix(name, "posts/42/"))
		assert.True(t, strings.HasSuffix(name, ".png"))
		assert.NotEqual(t, name, photoObject(42, "Sunset.PNG"))
	})

	t.Run("Префикс не пересекается с соседним постом", func(t *testing.T) {
		assert.False(t, strings.HasPrefix(photoObject(420, "a.jpg"), postPrefix(42)))
	})

	t.Run("Фото профиля одно на пользователя", func(t *testing.T) {
		assert.Equal(t, "profiles/7", profileObject(7))
	})
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", contentType("photo"))
	assert.Equal(t, "image/png", contentType("a.png"))
	assert.Equal(t, "application/octet-stream", contentType("a.unknownext"))
}
