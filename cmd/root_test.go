package cmd

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/output"
	"github.com/mj1618/scoopick/internal/platform"
	"github.com/mj1618/scoopick/internal/points"
	"github.com/mj1618/scoopick/internal/script"
	_ "github.com/mj1618/scoopick/internal/script/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it printed to
// stdout. Output is always JSON so results can be decoded.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	rootCmd.SetArgs(append([]string{"--format", "json"}, args...))
	err = rootCmd.Execute()
	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"gui", "points", "capture", "map", "sample", "run", "scripts", "serve", "config"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	rootCmd.SetArgs([]string{"--format", "xml", "scripts"})
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	assert.Error(t, rootCmd.Execute())
}

func TestPointsCommands_EditFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "points.json")

	_, err := execute(t, "-p", file, "points", "init")
	require.NoError(t, err)
	_, err = execute(t, "-p", file, "points", "init")
	assert.Error(t, err, "init must not overwrite without --force")

	out, err := execute(t, "-p", file, "points", "add", "Play", "--color", "#00ff00")
	require.NoError(t, err)
	var res output.ActionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.Point)
	assert.Equal(t, len(points.DefaultPoints), res.Point.Idx)
	assert.Equal(t, model.RGB(0, 255, 0), res.Point.Color)
	assert.False(t, res.Point.IsSet())

	_, err = execute(t, "-p", file, "points", "set", "Play", "640", "360")
	require.NoError(t, err)
	_, err = execute(t, "-p", file, "points", "rename", "0", "Start")
	require.NoError(t, err)
	_, err = execute(t, "-p", file, "points", "set", "Nope", "1", "1")
	assert.Error(t, err)

	c := points.New()
	ok, err := c.LoadFromFile(file)
	require.NoError(t, err)
	require.True(t, ok)
	play, found := model.FindByName(c.Points(), "Play")
	require.True(t, found)
	assert.Equal(t, image.Pt(640, 360), play.Pos())
	first, _ := c.At(0)
	assert.Equal(t, "Start", first.Name)

	_, err = execute(t, "-p", file, "points", "clear", "Play")
	require.NoError(t, err)
	_, err = execute(t, "-p", file, "points", "remove", "0", "1")
	require.NoError(t, err)

	out, err = execute(t, "-p", file, "points", "list")
	require.NoError(t, err)
	var list output.PointsResult
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, file, list.File)
	require.Len(t, list.Points, len(points.DefaultPoints)-1)
	for i, p := range list.Points {
		assert.Equal(t, i, p.Idx, "idx stays dense after remove")
	}
	last := list.Points[len(list.Points)-1]
	assert.Equal(t, "Play", last.Name)
	assert.False(t, last.IsSet())
}

func TestPointsList_MissingFileUsesDefaults(t *testing.T) {
	out, err := execute(t, "-p", filepath.Join(t.TempDir(), "none.json"), "points", "list")
	require.NoError(t, err)
	var list output.PointsResult
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list.Points, len(points.DefaultPoints))
}

func TestPointsList_InvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"points": [{"idx": "zero"}]}`), 0644))
	_, err := execute(t, "-p", file, "points", "list")
	assert.Error(t, err)
}

func TestMapCommand(t *testing.T) {
	out, err := execute(t, "map", "400", "300", "--image", "1920x1080", "--display", "800x600")
	require.NoError(t, err)
	var res output.MapResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotNil(t, res.ImagePoint)
	assert.Equal(t, [2]int{960, 540}, *res.ImagePoint)
	assert.False(t, res.Outside)

	out, err = execute(t, "map", "400", "50", "--image", "1920x1080", "--display", "800x600")
	require.NoError(t, err)
	res = output.MapResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, [2]int{-1, -1}, *res.ImagePoint, "letterbox bar")
	assert.True(t, res.Outside)
}

func TestParseSize(t *testing.T) {
	p, err := parseSize("1920x1080")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1920, 1080), p)

	for _, bad := range []string{"", "1920", "0x10", "ax10", "-5x5"} {
		_, err := parseSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestScriptsCommand_ListsBuiltins(t *testing.T) {
	out, err := execute(t, "scripts")
	require.NoError(t, err)
	var list []script.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	var names []string
	for _, s := range list {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "logging")
}

func TestRunCommand_NeedsScript(t *testing.T) {
	_, err := execute(t, "-p", filepath.Join(t.TempDir(), "p.json"), "run")
	assert.Error(t, err)
}

func TestRunCommand_NoInputBackend(t *testing.T) {
	saved := platform.InputFunc
	platform.InputFunc = nil
	defer func() { platform.InputFunc = saved }()

	_, err := execute(t, "-p", filepath.Join(t.TempDir(), "p.json"), "run", "logging")
	assert.ErrorIs(t, err, platform.ErrUnsupported)
}

func TestSampleCommand_FromFile(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	img.Set(5, 6, color.RGBA{83, 141, 78, 255})
	imgPath := filepath.Join(dir, "screen.png")
	f, err := os.Create(imgPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	file := filepath.Join(dir, "points.json")
	_, err = execute(t, "-p", file, "points", "init", "--force")
	require.NoError(t, err)
	_, err = execute(t, "-p", file, "points", "set", "0", "5", "6")
	require.NoError(t, err)
	_, err = execute(t, "-p", file, "points", "set", "1", "50", "50")
	require.NoError(t, err)

	out, err := execute(t, "-p", file, "sample", "--from", imgPath)
	require.NoError(t, err)
	var samples []output.Sample
	require.NoError(t, json.Unmarshal([]byte(out), &samples))
	require.Len(t, samples, 2, "unset points are skipped")
	assert.Equal(t, "#538d4e", samples[0].Hex)
	assert.NotEmpty(t, samples[1].Error, "outside the image")
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	_, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "--config", path, "--log-level", "debug", "config", "show")
	require.NoError(t, err)
	assert.Equal(t, "debug", appConfig.Log.Level)

	_, err = execute(t, "--config", path, "--log-level", "loud", "config", "show")
	assert.Error(t, err)
}
