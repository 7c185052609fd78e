package cmd

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/output"
	"github.com/mj1618/scoopick/internal/screen"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [REF...]",
	Short: "Print the color under each point",
	Long: `Read the pixel color under every set point, or only the given points, to tune
the reference colors and thresholds of a script. Colors come from the live
screen unless --from names a saved screenshot.

Examples:
  scoopick sample
  scoopick sample Play 3
  scoopick sample --from screen.png`,
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().String("from", "", "Sample a PNG or JPEG file instead of the screen")
}

func runSample(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")

	c, _, err := openPoints()
	if err != nil {
		return err
	}
	pts := c.Points()
	if len(args) > 0 {
		if pts, err = findPoints(c, args); err != nil {
			return err
		}
	}

	var read func(p model.Point) (model.Color, error)
	if from != "" {
		img, err := decodeImage(from)
		if err != nil {
			return err
		}
		read = func(p model.Point) (model.Color, error) {
			col, ok := screen.PixelOf(img, p)
			if !ok {
				return model.Color{}, fmt.Errorf("(%d, %d) is outside the %s image", p.X, p.Y, img.Bounds().Size())
			}
			return col, nil
		}
	} else {
		provider, err := newProvider(true)
		if err != nil {
			return err
		}
		read = func(p model.Point) (model.Color, error) {
			return provider.Pixels.PixelColor(p.X, p.Y)
		}
	}

	samples := make([]output.Sample, 0, len(pts))
	for _, p := range pts {
		if !p.IsSet() {
			if len(args) == 0 {
				continue
			}
			samples = append(samples, output.Sample{Idx: p.Idx, Name: p.Name, X: p.X, Y: p.Y, Error: "point not set"})
			continue
		}
		col, err := read(p)
		if err != nil {
			samples = append(samples, output.Sample{Idx: p.Idx, Name: p.Name, X: p.X, Y: p.Y, Error: err.Error()})
			continue
		}
		samples = append(samples, output.NewSample(p, col))
	}
	return output.Print(samples)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
