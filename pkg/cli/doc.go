/*
Package cli provides the helpers shared by the flashgate commands: output
formatting, a progress reporter for sequential card creation, signal
handling and typed command errors.

Output Formatting:

Results print as text or JSON depending on --output:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, sets); err != nil {
		return err
	}

Values implementing Texter control their own text rendering; anything else
prints with %v.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
