package source

import (
	"context"
	"fmt"
	"os"

	"github.com/thesavant42/exportatlas/internal/models"
)

// File loads the service list from a local JSON file
type File struct {
	Path string
}

// NewFile creates a file-backed source
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load reads and decodes the file
func (f *File) Load(ctx context.Context) ([]models.Service, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	services, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.Path, err)
	}
	return services, nil
}

func (f *File) String() string {
	return f.Path
}
