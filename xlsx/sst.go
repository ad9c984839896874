package xlsx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/unidoc/unioffice/schema/soo/sml"
)

const (
	relTypeOfficeDocument = "/officeDocument"
	relTypeSharedStrings  = "/sharedStrings"
)

type packageRels struct {
	Rels []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// loadSharedStrings reads the shared string table straight from the
// package. unioffice only follows relative relationship targets, so a
// workbook that points at "/xl/sharedStrings.xml" (as excelize writes it)
// opens with an empty table. A nil table with a nil error means the
// workbook has none.
func loadSharedStrings(file string) (*sml.Sst, error) {
	zr, err := zip.OpenReader(file)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	workbook, err := relTarget(&zr.Reader, "", relTypeOfficeDocument)
	if err != nil || workbook == "" {
		return nil, err
	}
	sstPart, err := relTarget(&zr.Reader, workbook, relTypeSharedStrings)
	if err != nil || sstPart == "" {
		return nil, err
	}
	data, err := readPart(&zr.Reader, sstPart)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sst := sml.NewSst()
	if err := xml.Unmarshal(data, sst); err != nil {
		return nil, fmt.Errorf("parse %s: %w", sstPart, err)
	}
	return sst, nil
}

// relTarget finds the first relationship of relType owned by part ("" for
// the package itself) and resolves its target to a part name.
func relTarget(zr *zip.Reader, part, relType string) (string, error) {
	relsName := path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	if part == "" {
		relsName = "_rels/.rels"
	}
	data, err := readPart(zr, relsName)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var rels packageRels
	if err := xml.Unmarshal(data, &rels); err != nil {
		return "", fmt.Errorf("parse %s: %w", relsName, err)
	}
	for _, rel := range rels.Rels {
		if strings.HasSuffix(rel.Type, relType) {
			return resolveTarget(path.Dir(part), rel.Target), nil
		}
	}
	return "", nil
}

// resolveTarget turns a relationship target into a zip entry name.
// Absolute targets are rooted at the package; relative ones at base.
func resolveTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(base, target), "/")
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
