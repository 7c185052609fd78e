package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/output"
	"github.com/mj1618/scoopick/internal/points"
	"github.com/spf13/cobra"
)

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "List and edit the points file",
	Long: `Inspect and edit the points file without the GUI. Points are addressed by idx
or by name; every edit is saved back to the file immediately.

Examples:
  scoopick points list
  scoopick points add Play --color "#00ff00"
  scoopick points set Play 640 360
  scoopick points clear 0 1
  scoopick points rename 2 Quit`,
}

var pointsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every point",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, path, err := openPoints()
		if err != nil {
			return err
		}
		return output.Print(output.PointsResult{File: path, Points: c.Points()})
	},
}

var pointsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default points to the points file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := pointsPath()
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		c := points.NewDefault(points.WithLogger(appLog))
		if err := c.SaveToFile(path); err != nil {
			return err
		}
		return output.Print(output.ActionResult{OK: true, Action: "init", File: path})
	},
}

var pointsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Append a new unset point",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := model.NewPoint(args[0])
		if s, _ := cmd.Flags().GetString("color"); s != "" {
			col, err := model.ParseColor(s)
			if err != nil {
				return err
			}
			p.Color = col
		}
		x, _ := cmd.Flags().GetInt("x")
		y, _ := cmd.Flags().GetInt("y")
		p.X, p.Y = x, y

		return editPoints("add", func(c *points.Collection) (*model.Point, error) {
			idx := c.Add(p)
			added, err := c.At(idx)
			return &added, err
		})
	},
}

var pointsRemoveCmd = &cobra.Command{
	Use:   "remove REF...",
	Short: "Remove points; later points shift down one idx",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPoints("remove", func(c *points.Collection) (*model.Point, error) {
			pts, err := findPoints(c, args)
			if err != nil {
				return nil, err
			}
			c.Remove(pts...)
			return nil, nil
		})
	},
}

var pointsSetCmd = &cobra.Command{
	Use:   "set REF X Y",
	Short: "Set the screenshot coordinates of a point",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", args[1], err)
		}
		y, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid y %q: %w", args[2], err)
		}
		if x < model.Unset || y < model.Unset {
			return errors.New("coordinates must be >= 0, or -1 to unset")
		}
		return editPoints("set", func(c *points.Collection) (*model.Point, error) {
			p, err := findPoint(c, args[0])
			if err != nil {
				return nil, err
			}
			if err := c.UpdatePosition(p.Idx, x, y); err != nil {
				return nil, err
			}
			p.X, p.Y = x, y
			return &p, nil
		})
	},
}

var pointsClearCmd = &cobra.Command{
	Use:   "clear REF...",
	Short: "Reset points to unset",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPoints("clear", func(c *points.Collection) (*model.Point, error) {
			pts, err := findPoints(c, args)
			if err != nil {
				return nil, err
			}
			for _, p := range pts {
				if err := c.UpdateFields(p.Cleared()); err != nil {
					return nil, err
				}
			}
			return nil, nil
		})
	},
}

var pointsRenameCmd = &cobra.Command{
	Use:   "rename REF NAME",
	Short: "Rename a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editPoints("rename", func(c *points.Collection) (*model.Point, error) {
			p, err := findPoint(c, args[0])
			if err != nil {
				return nil, err
			}
			p.Name = args[1]
			if err := c.UpdateFields(p); err != nil {
				return nil, err
			}
			return &p, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(pointsCmd)
	pointsCmd.AddCommand(pointsListCmd, pointsInitCmd, pointsAddCmd, pointsRemoveCmd, pointsSetCmd, pointsClearCmd, pointsRenameCmd)

	pointsInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	pointsAddCmd.Flags().String("color", "", "Indicator color as #rrggbb or r,g,b (default #"+model.DefaultColor.Hex()+")")
	pointsAddCmd.Flags().Int("x", model.Unset, "Initial x coordinate")
	pointsAddCmd.Flags().Int("y", model.Unset, "Initial y coordinate")
}

// editPoints loads the points file, applies edit and saves the result.
func editPoints(action string, edit func(c *points.Collection) (*model.Point, error)) error {
	c, path, err := openPoints()
	if err != nil {
		return err
	}
	p, err := edit(c)
	if err != nil {
		return err
	}
	if err := c.SaveToFile(path); err != nil {
		return err
	}
	return output.Print(output.ActionResult{OK: true, Action: action, Point: p, File: path})
}

// findPoints resolves every ref before anything is changed, so removing by idx
// is not affected by re-indexing.
func findPoints(c *points.Collection, refs []string) ([]model.Point, error) {
	pts := make([]model.Point, 0, len(refs))
	for _, ref := range refs {
		p, err := findPoint(c, ref)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}
