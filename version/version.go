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

package version

import (
	"fmt"
	"strconv"
	"strings"
)

//go:generate go run ../tools/version -file stamp.go

type Version struct {
	Major, Minor, Patch byte
	Build               string
}

var (
	Current   = Version{0, 1, 0, ""}
	Copyright = "Copyright (c) 2019-2021 Andreas T Jonsson"

	// Hash is the source revision, set with -ldflags "-X .../version.Hash=...".
	Hash = "unknown"
)

func New(major, minor, patch byte) Version {
	return Version{major, minor, patch, ""}
}

// Parse reads "major.minor.patch" with an optional "-build" suffix.
func Parse(s string) (Version, error) {
	var v Version
	s, v.Build, _ = strings.Cut(s, "-")

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return v, fmt.Errorf("invalid version: %q", s)
	}
	for i, dst := range []*byte{&v.Major, &v.Minor, &v.Patch} {
		n, err := strconv.ParseUint(parts[i], 10, 8)
		if err != nil {
			return v, fmt.Errorf("invalid version: %q", s)
		}
		*dst = byte(n)
	}
	return v, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) FullString() string {
	if v.Build == "" {
		return v.String()
	}
	return fmt.Sprintf("%s-%s", v.String(), v.Build)
}

func (v Version) Compatible(ver Version) bool {
	return v.Major == ver.Major && v.Minor == ver.Minor
}
