package unpack

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/m8pack/internal/common"
	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/m8"
	"github.com/dtnitsch/m8pack/pkg/storage"
)

// UnpackAction handles `m8pack unpack <package> [output]`. The markup is
// recovered with the Go decoder; no script runs.
func UnpackAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	if c.NArg() < 1 || c.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Usage: m8pack unpack <package.html> [output.html]")
		return fmt.Errorf("%w: expected 1 or 2 arguments, got %d", models.ErrConfiguration, c.NArg())
	}
	input := c.Args().Get(0)
	output := "-"
	if c.NArg() == 2 {
		output = c.Args().Get(1)
	}

	s := &storage.Storage{}
	pkg, err := s.ReadFile(input)
	if err != nil {
		return err
	}

	markup, err := m8.Unpack(string(pkg))
	if err != nil {
		logger.Error("failed to unpack", "input", input, "error", err)
		return err
	}

	if err := s.SaveFile(output, []byte(markup)); err != nil {
		return err
	}
	logger.Info("package unpacked", "input", input, "output", output, "bytes", len(markup))
	return nil
}
