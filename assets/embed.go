package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed levels/*.txt
var levelFS embed.FS

//go:embed sql/*.sql
var migrationFS embed.FS

// Migrations exposes the embedded sql/*.sql files.
func Migrations() fs.FS {
	sub, _ := fs.Sub(migrationFS, "sql")
	return sub
}

// readBoard returns the board rows of a level file. Lines starting with
// '#' are comments; trailing spaces are significant and kept.
func readBoard(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// Levels returns every embedded level keyed by file name without the
// .txt suffix.
func Levels() (map[string][]string, error) {
	return LevelsFrom(levelFS, "levels")
}

// LevelsFrom reads every *.txt file in dir of fsys as a level board.
func LevelsFrom(fsys fs.FS, dir string) (map[string][]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			continue
		}
		rows, err := readBoard(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = rows
	}
	return out, nil
}
