package util

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"github.com/m4gshm/gollections/expr/use"
	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/crudr/logger"
)

const packageMode = packages.NeedSyntax | packages.NeedName | packages.NeedTypesInfo | packages.NeedTypes | packages.NeedModule | packages.NeedFiles

// LoadPackages loads the packages matched by pattern relative to dir.
func LoadPackages(fileSet *token.FileSet, buildTags []string, dir string, patterns ...string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	pkgs, err := packages.Load(&packages.Config{
		Dir:        dir,
		Fset:       fileSet,
		Mode:       packageMode,
		BuildFlags: buildTagsArg(buildTags),
		Logf:       func(format string, args ...any) { logger.Debugf("packagesLoad: "+format, args...) },
	}, patterns...)
	if err != nil {
		return nil, err
	}
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			logger.Debugf("package %s error; %v", pkg.PkgPath, pkgErr)
		}
	}
	return pkgs, nil
}

// ExtractPackages loads the package that contains the file or directory.
func ExtractPackages(fileSet *token.FileSet, buildTags []string, fileName string) ([]*packages.Package, error) {
	dir, err := GetDir(fileName)
	if err != nil {
		return nil, err
	}
	return LoadPackages(fileSet, buildTags, dir, ".")
}

func buildTagsArg(buildTags []string) []string {
	if len(buildTags) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("-tags=%s", strings.Join(buildTags, ","))}
}

func GetDir(fileName string) (string, error) {
	fileStat, err := os.Stat(fileName)
	isNoExists := errors.Is(err, os.ErrNotExist)
	if !isNoExists && err != nil {
		return "", err
	}
	return use.If(!isNoExists && fileStat.IsDir(), fileName).ElseGet(func() string { return filepath.Dir(fileName) }), nil
}

// PackageDirs returns the source directories of the packages.
func PackageDirs(pkgs []*packages.Package) []string {
	var (
		dirs []string
		seen = map[string]struct{}{}
	)
	for _, pkg := range pkgs {
		for _, file := range pkg.GoFiles {
			dir := filepath.Dir(file)
			if _, ok := seen[dir]; !ok {
				seen[dir] = struct{}{}
				dirs = append(dirs, dir)
			}
		}
	}
	return dirs
}

// SplitTypeName splits "path/to/pkg.Type" into the package path and the type name.
func SplitTypeName(fullName string) (string, string) {
	if i := strings.LastIndexByte(fullName, '.'); i > 0 {
		return fullName[:i], fullName[i+1:]
	}
	return "", fullName
}

func GetTypeNamed(typ types.Type) (*types.Named, int) {
	switch ftt := typ.(type) {
	case *types.Named:
		return ftt, 0
	case *types.Alias:
		return GetTypeNamed(types.Unalias(ftt))
	case *types.Pointer:
		t, p := GetTypeNamed(ftt.Elem())
		return t, p + 1
	default:
		return nil, 0
	}
}

func GetStructTypeNamed(typ types.Type) (*types.Named, int) {
	if ftt, deep := GetTypeNamed(typ); ftt != nil {
		if _, ok := ftt.Underlying().(*types.Struct); ok {
			return ftt, deep
		}
	}
	return nil, 0
}

func GetTypeStruct(t types.Type) (*types.Struct, int) {
	return getType[*types.Struct](t, 1000)
}

func GetTypeBasic(t types.Type) (*types.Basic, int) {
	return getType[*types.Basic](t, 1000)
}

func getType[T types.Type](t types.Type, depth int) (T, int) {
	if depth < 0 {
		panic(fmt.Sprintf("getType overflow %v", t))
	}
	var zero T
	switch tt := t.(type) {
	case T:
		return tt, 0
	case *types.Pointer:
		s, pc := getType[T](tt.Elem(), depth-1)
		return s, pc + 1
	case types.Type:
		underlying := tt.Underlying()
		if underlying == t {
			return zero, 0
		}
		return getType[T](underlying, depth-1)
	default:
		return zero, 0
	}
}

// IsNamed reports whether the type is the named type pkgPath.name.
func IsNamed(typ types.Type, pkgPath, name string) bool {
	named, _ := GetTypeNamed(typ)
	if named == nil {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == pkgPath && obj.Name() == name
}

func TypeString(typ types.Type, outPkgPath string) string {
	return types.TypeString(typ, basePackQ(outPkgPath))
}

func basePackQ(outPkgPath string) func(p *types.Package) string {
	return func(p *types.Package) string {
		if p.Path() == outPkgPath {
			return ""
		}
		return p.Name()
	}
}

func GetPackageName(pkgPath string) string {
	j := len(pkgPath)
	i := j - 1
	for ; i >= 0; i-- {
		if pkgPath[i] == '/' {
			part := pkgPath[i+1 : j]
			if !isVersionElement(part) {
				return part
			}
			j = i
		}
	}
	return pkgPath[i+1 : j]
}

// isVersionElement reports whether s is a well-formed path version element:
// v2, v3, v10, etc, but not v0, v05, v1.
func isVersionElement(pkgName string) bool {
	if len(pkgName) < 2 || pkgName[0] != 'v' || pkgName[1] == '0' || pkgName[1] == '1' && len(pkgName) == 2 {
		return false
	}
	for i := 1; i < len(pkgName); i++ {
		if pkgName[i] < '0' || '9' < pkgName[i] {
			return false
		}
	}
	return true
}
