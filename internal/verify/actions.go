package verify

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/m8pack/internal/common"
	"github.com/dtnitsch/m8pack/models"
	"github.com/dtnitsch/m8pack/pkg/m8"
	"github.com/dtnitsch/m8pack/pkg/storage"
	"github.com/dtnitsch/m8pack/pkg/verify"
)

// VerifyAction handles `m8pack verify <input> [package]`. Without a package
// the input is compressed in memory first. The report is printed as YAML
// and a failed round trip is returned as ErrRoundTrip.
func VerifyAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	if c.NArg() < 1 || c.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Usage: m8pack verify <input.html> [package.html]")
		return fmt.Errorf("%w: expected 1 or 2 arguments, got %d", models.ErrConfiguration, c.NArg())
	}
	input := c.Args().Get(0)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	s := &storage.Storage{}
	markup, err := s.ReadFile(input)
	if err != nil {
		return err
	}

	timeout := c.Duration("timeout")
	if timeout <= 0 {
		timeout = verify.DefaultTimeout
	}

	var rep *verify.Report
	if c.NArg() == 2 {
		pkg, err := s.ReadFile(c.Args().Get(1))
		if err != nil {
			return err
		}
		rep, err = verify.CheckPackage(string(markup), string(pkg), timeout)
		if err != nil {
			return err
		}
	} else {
		rep, err = verify.Check(string(markup), m8.OptionsFromConfig(cfg), timeout)
		if err != nil {
			return err
		}
	}

	yamlBytes, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	fmt.Print(string(yamlBytes))

	if !rep.OK() {
		logger.Error("round trip failed", "input", input, "go_first_diff", rep.GoFirstDiff)
		return fmt.Errorf("%w: %s does not survive compression", models.ErrRoundTrip, input)
	}
	if !rep.StructureMatches {
		logger.Warn("element structure differs", "diff", rep.StructureDiff)
	}
	logger.Info("round trip verified", "input", input, "hazards", len(rep.Hazards))
	return nil
}
