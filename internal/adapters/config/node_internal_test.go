package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLoadProject(t *testing.T) {
	t.Run("loads from the working directory", func(t *testing.T) {
		loader := mocks.NewMockConfigLoader(gomock.NewController(t))
		want := domain.DefaultConfig("/work/project")
		loader.EXPECT().Load("/work/project/src").Return(&want, nil)

		got, err := loadProject(loader, func() (string, error) { return "/work/project/src", nil })
		require.NoError(t, err)
		assert.Same(t, &want, got)
	})

	t.Run("working directory unavailable", func(t *testing.T) {
		loader := mocks.NewMockConfigLoader(gomock.NewController(t))
		loader.EXPECT().Load(gomock.Any()).Times(0)

		_, err := loadProject(loader, func() (string, error) { return "", errors.New("getwd: no such file") })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get working directory")
	})

	t.Run("loader errors propagate", func(t *testing.T) {
		loader := mocks.NewMockConfigLoader(gomock.NewController(t))
		loader.EXPECT().Load("/work").Return(nil, domain.ErrConfigInvalid)

		_, err := loadProject(loader, func() (string, error) { return "/work", nil })
		require.ErrorIs(t, err, domain.ErrConfigInvalid)
	})
}
