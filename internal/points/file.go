package points

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/scoopick/internal/model"
	"go.uber.org/zap"
)

// File is the on-disk shape of a points document.
type File struct {
	Points []model.Point `json:"points"`
}

// Load replaces the collection with the document read from r. A malformed or
// schema-violating document returns false and leaves the collection untouched;
// only read errors are returned.
func (c *Collection) Load(r io.Reader) (bool, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, fmt.Errorf("read points: %w", err)
	}
	if err := Validate(data); err != nil {
		c.log.Warn("points document rejected", zap.Error(err))
		return false, nil
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		c.log.Warn("points document rejected", zap.Error(err))
		return false, nil
	}
	pts := make([]model.Point, len(f.Points))
	for i, p := range f.Points {
		if p.Idx != i {
			c.log.Debug("re-indexing loaded point", zap.Int("from", p.Idx), zap.Int("to", i))
		}
		p.Idx = i
		pts[i] = p
	}
	c.replace(pts)
	return true, nil
}

// LoadFromFile is Load over the file at path.
func (c *Collection) LoadFromFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	ok, err := c.Load(f)
	if ok {
		c.log.Info("loaded points", zap.String("path", path), zap.Int("count", c.Len()))
	}
	return ok, err
}

// Save writes the full collection to w with four space indentation.
func (c *Collection) Save(w io.Writer) error {
	f := File{Points: c.Points()}
	if f.Points == nil {
		f.Points = []model.Point{}
	}
	data, err := json.MarshalIndent(f, "", "    ")
	if err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	data = append(data, '\n')
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

// SaveToFile overwrites path with the collection.
func (c *Collection) SaveToFile(path string) error {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write points: %w", err)
	}
	c.log.Info("saved points", zap.String("path", path), zap.Int("count", c.Len()))
	return nil
}
