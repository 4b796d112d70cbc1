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

// Command version writes a Go file that stamps the version package with the
// release number from I86_VERSION and the current git revision.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/andreas-jonsson/i8086-core/version"
)

const (
	startYear    = 2019
	copyrightFmt = "Copyright (c) %v Andreas T Jonsson"
)

var stampTemplate = template.Must(template.New("stamp").Parse(`// Code generated by tools/version. DO NOT EDIT.

package {{.Package}}

func init() {
	Current = Version{ {{.Version.Major}}, {{.Version.Minor}}, {{.Version.Patch}}, "{{.Version.Build}}" }
	Copyright = "{{.Copyright}}"
	Hash = "{{.Hash}}"
}
`))

type stamp struct {
	Package   string
	Version   version.Version
	Copyright string
	Hash      string
}

func copyright(year int) string {
	if year == startYear {
		return fmt.Sprintf(copyrightFmt, startYear)
	}
	return fmt.Sprintf(copyrightFmt, fmt.Sprintf("%d-%d", startYear, year))
}

func gitHash() string {
	res, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		logrus.WithError(err).Warn("could not read git hash")
		return "unknown"
	}
	return strings.TrimSpace(string(res))
}

func generate(fs afero.Fs, file string, s *stamp) error {
	if file == "-" {
		return stampTemplate.Execute(os.Stdout, s)
	}
	if err := fs.MkdirAll(filepath.Dir(file), 0o777); err != nil {
		return err
	}
	fp, err := fs.Create(file)
	if err != nil {
		return err
	}
	defer fp.Close()
	return stampTemplate.Execute(fp, s)
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	var file, pkg, variable string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Generate the version stamp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &stamp{
				Package:   pkg,
				Version:   version.Current,
				Copyright: copyright(time.Now().Year()),
				Hash:      gitHash(),
			}
			if v := os.Getenv(variable); v != "" {
				parsed, err := version.Parse(v)
				if err != nil {
					return err
				}
				s.Version = parsed
			} else {
				logrus.Infof("%s is not set, using %s", variable, s.Version.FullString())
			}
			return generate(fs, file, s)
		},
	}

	f := cmd.Flags()
	f.StringVar(&file, "file", "-", "save the generated output to file")
	f.StringVar(&pkg, "package", "version", "package name of the generated output")
	f.StringVar(&variable, "variable", "I86_VERSION", "environment variable containing the version number")
	return cmd
}

func main() {
	if err := newRootCommand(afero.NewOsFs()).Execute(); err != nil {
		logrus.Fatal(err)
	}
}
