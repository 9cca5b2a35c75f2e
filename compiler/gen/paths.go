package gen

import (
	"path"

	"github.com/syssam/fortigen/compiler/load"
	"github.com/syssam/fortigen/naming"
)

// helpersDir is the subdirectory holding validation helpers.
const helpersDir = "helpers"

// Paths locates the artifacts of one endpoint. File paths are slash
// separated and relative to the output root.
type Paths struct {
	// Dir is the directory of the implementation and type stub.
	Dir string
	// Package is the Go package name of Dir.
	Package string
	// ImportPath and HelpersImportPath are the import paths of Dir and its
	// helpers subpackage.
	ImportPath        string
	HelpersImportPath string

	Implementation string
	Validator      string
	TypeStub       string
}

// File returns the path of the artifact of the given kind.
func (p Paths) File(kind Kind) string {
	switch kind {
	case KindValidator:
		return p.Validator
	case KindTypeStub:
		return p.TypeStub
	default:
		return p.Implementation
	}
}

// DerivePaths returns the output paths of s below the module rooted at
// modulePath. The directory mirrors the category and every path segment but
// the last, each turned into a valid package name:
//
//	cmdb + firewall.service/custom  ->  cmdb/firewall/service/custom.go
//	                                    cmdb/firewall/service/helpers/custom.go
//	                                    cmdb/firewall/service/custom_types.go
func DerivePaths(s *load.Schema, modulePath string) Paths {
	dirs := []string{naming.ModuleName(s.Category)}
	for _, d := range s.Dirs() {
		dirs = append(dirs, naming.ModuleName(d))
	}
	dir := path.Join(dirs...)
	return Paths{
		Dir:               dir,
		Package:           dirs[len(dirs)-1],
		ImportPath:        path.Join(modulePath, dir),
		HelpersImportPath: path.Join(modulePath, dir, helpersDir),
		Implementation:    path.Join(dir, s.FileName+".go"),
		Validator:         path.Join(dir, helpersDir, s.FileName+".go"),
		TypeStub:          path.Join(dir, s.FileName+"_types.go"),
	}
}
