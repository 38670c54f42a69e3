package util

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, "dev", v.Version)
	assert.Equal(t, runtime.Version(), v.GoVersion)
}
