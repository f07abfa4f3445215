// Package meshio loads triangle meshes from files.
package meshio

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/akmonengine/obbtree/tree"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrIndexBounds    = errors.New("index out of bounds")
	ErrDegenerateFace = errors.New("face needs at least 3 vertices")
)

type objReader struct {
	name     string
	line     int
	vertices []mgl64.Vec3
	indices  []int
}

// ReadOBJ parses the Wavefront OBJ data of r. Only the vertex positions and the faces
// are kept: faces with more than 3 vertices are fan-triangulated, texture and normal
// references are skipped. name prefixes the error positions.
func ReadOBJ(r io.Reader, name string) (tree.Mesh, error) {
	p := objReader{name: name}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		var err error
		switch tokens[0] {
		case "v":
			err = p.parseVertex(tokens)
		case "f":
			err = p.parseFace(tokens)
		}
		if err != nil {
			return tree.Mesh{}, errors.Wrapf(err, "%s:%d", p.name, p.line)
		}
	}
	if err := scanner.Err(); err != nil {
		return tree.Mesh{}, errors.Wrapf(err, "reading %s", name)
	}

	return tree.Mesh{Vertices: p.vertices, Indices: p.indices}, nil
}

// LoadOBJ reads the OBJ file at path
func LoadOBJ(path string) (tree.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return tree.Mesh{}, errors.Wrap(err, "opening mesh")
	}
	defer f.Close()

	return ReadOBJ(f, path)
}

func (p *objReader) parseVertex(tokens []string) error {
	// an optional w coordinate may follow
	if len(tokens) < 4 {
		return errors.Wrapf(ErrSyntax, "'v' expects 3 coordinates, got %d", len(tokens)-1)
	}

	var v mgl64.Vec3
	for i := range 3 {
		coord, err := strconv.ParseFloat(tokens[i+1], 64)
		if err != nil {
			return errors.Wrapf(ErrSyntax, "coordinate %q", tokens[i+1])
		}
		v[i] = coord
	}
	p.vertices = append(p.vertices, v)

	return nil
}

func (p *objReader) parseFace(tokens []string) error {
	if len(tokens) < 4 {
		return errors.Wrapf(ErrDegenerateFace, "got %d", len(tokens)-1)
	}

	face := make([]int, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		index, err := p.vertexIndex(token)
		if err != nil {
			return err
		}
		face = append(face, index)
	}

	for i := 1; i+1 < len(face); i++ {
		p.indices = append(p.indices, face[0], face[i], face[i+1])
	}

	return nil
}

// vertexIndex resolves the position part of a v, v/vt, v//vn or v/vt/vn token.
// Negative indices count back from the last vertex read.
func (p *objReader) vertexIndex(token string) (int, error) {
	position, _, _ := strings.Cut(token, "/")

	index, err := strconv.Atoi(position)
	if err != nil {
		return -1, errors.Wrapf(ErrSyntax, "face vertex %q", token)
	}

	offset := index - 1
	if index < 0 {
		offset = len(p.vertices) + index
	}
	if index == 0 || offset < 0 || offset >= len(p.vertices) {
		return -1, errors.Wrapf(ErrIndexBounds, "face vertex %d (%d vertices)", index, len(p.vertices))
	}

	return offset, nil
}
