package cmd

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/mj1618/scoopick/internal/mapper"
	"github.com/mj1618/scoopick/internal/output"
	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map X Y",
	Short: "Convert between display and screenshot coordinates",
	Long: `Map a position in a display area to screenshot pixels, the way a click in the
GUI is mapped. The screenshot is scaled to fit the display area and centered;
positions in the letterbox bars map to -1,-1. With --reverse, X Y are
screenshot pixels and the display position is printed instead.

Examples:
  scoopick map 400 200 --image 1920x1080 --display 800x600
  scoopick map 960 540 --image 1920x1080 --display 800x600 --reverse`,
	Args: cobra.ExactArgs(2),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)
	mapCmd.Flags().String("image", "", "Screenshot size WxH (required)")
	mapCmd.Flags().String("display", "", "Display area size WxH (required)")
	mapCmd.Flags().Bool("reverse", false, "Map screenshot pixels to the display area")
	_ = mapCmd.MarkFlagRequired("image")
	_ = mapCmd.MarkFlagRequired("display")
}

func runMap(cmd *cobra.Command, args []string) error {
	imgFlag, _ := cmd.Flags().GetString("image")
	dispFlag, _ := cmd.Flags().GetString("display")
	reverse, _ := cmd.Flags().GetBool("reverse")

	imgSize, err := parseSize(imgFlag)
	if err != nil {
		return err
	}
	dispSize, err := parseSize(dispFlag)
	if err != nil {
		return err
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[0], err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[1], err)
	}

	m := mapper.New(imgSize, dispSize)
	res := output.MapResult{
		Image:   [2]int{imgSize.X, imgSize.Y},
		Display: [2]int{dispSize.X, dispSize.Y},
		Input:   [2]float64{x, y},
	}
	if reverse {
		dx, dy, ok := m.ToDisplay(image.Pt(int(x), int(y)))
		res.DisplayPoint = &[2]float64{dx, dy}
		res.Outside = !ok
	} else {
		p := m.ToImage(x, y)
		res.ImagePoint = &[2]int{p.X, p.Y}
		res.Outside = p == mapper.Outside
	}
	return output.Print(res)
}

// parseSize parses "WxH" with positive dimensions.
func parseSize(s string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid size %q: expected WxH", s)
	}
	wi, err1 := strconv.Atoi(strings.TrimSpace(w))
	hi, err2 := strconv.Atoi(strings.TrimSpace(h))
	if err1 != nil || err2 != nil || wi <= 0 || hi <= 0 {
		return image.Point{}, fmt.Errorf("invalid size %q: expected positive WxH", s)
	}
	return image.Pt(wi, hi), nil
}
