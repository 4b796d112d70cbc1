/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreas-jonsson/i8086-core/version"
)

func TestCopyright(t *testing.T) {
	assert.Equal(t, "Copyright (c) 2019 Andreas T Jonsson", copyright(2019))
	assert.Equal(t, "Copyright (c) 2019-2026 Andreas T Jonsson", copyright(2026))
}

func TestGenerate(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := &stamp{
		Package:   "version",
		Version:   version.Version{Major: 1, Minor: 2, Patch: 3, Build: "rc1"},
		Copyright: copyright(2019),
		Hash:      "abc123",
	}
	require.NoError(t, generate(fs, "out/stamp.go", s))

	data, err := afero.ReadFile(fs, "out/stamp.go")
	require.NoError(t, err)
	assert.Contains(t, string(data), "package version")
	assert.Contains(t, string(data), `Current = Version{ 1, 2, 3, "rc1" }`)
	assert.Contains(t, string(data), `Hash = "abc123"`)
}

func TestInvalidVersion(t *testing.T) {
	t.Setenv("I86_TEST_VERSION", "1.2")
	cmd := newRootCommand(afero.NewMemMapFs())
	cmd.SetArgs([]string{"--variable", "I86_TEST_VERSION", "--file", "stamp.go"})
	assert.Error(t, cmd.Execute())
}
