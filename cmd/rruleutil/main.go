// Command rruleutil parses an RFC 5545 DTSTART/RRULE text block and either
// expands its occurrences or prints it back in canonical form.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	rrule "github.com/quartzline/rrule-go"
)

var (
	fStrict bool
	fLimit  int
	fText   string

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	rootCmd = &cobra.Command{
		Use:   "rruleutil",
		Short: "Parse and expand RFC 5545 recurrence rules",
	}

	expandCmd = &cobra.Command{
		Use:   "expand",
		Short: "Expand a DTSTART/RRULE block into its occurrence sequence",
		RunE:  runExpand,
	}

	formatCmd = &cobra.Command{
		Use:   "format",
		Short: "Parse a DTSTART/RRULE block and print it back in canonical form",
		RunE:  runFormat,
	}
)

func init() {
	log.Logger = logger

	rootCmd.PersistentFlags().StringVarP(&fText, "text", "t", "", "DTSTART/RRULE text block (reads stdin if omitted)")
	rootCmd.PersistentFlags().BoolVar(&fStrict, "strict", false, "fail on malformed or out-of-range tokens instead of filtering them")

	expandCmd.Flags().IntVarP(&fLimit, "limit", "n", 10, "maximum number of occurrences to print (0 = unlimited, bounded by the rule itself)")

	rootCmd.AddCommand(expandCmd, formatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("rruleutil failed")
		os.Exit(1)
	}
}

func readText(cmd *cobra.Command) (string, error) {
	if fText != "" {
		return fText, nil
	}
	data, err := readAll(cmd)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

func readAll(cmd *cobra.Command) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 4096)
	in := cmd.InOrStdin()
	for {
		n, err := in.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	return sb.String(), nil
}

func parseMode() rrule.ParseMode {
	if fStrict {
		return rrule.Strict
	}
	return rrule.Lenient
}

func runExpand(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd)
	if err != nil {
		return err
	}
	r, err := rrule.ParseText(text, parseMode(), rrule.UTCZoneResolver{})
	if err != nil {
		return fmt.Errorf("parsing rule: %w", err)
	}

	occurrences, err := rrule.All(r, fLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("generator stopped early")
	}
	for _, mo := range occurrences {
		fmt.Fprintln(cmd.OutOrStdout(), formatMoment(mo))
	}
	return nil
}

func runFormat(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd)
	if err != nil {
		return err
	}
	r, err := rrule.ParseText(text, parseMode(), rrule.UTCZoneResolver{})
	if err != nil {
		return fmt.Errorf("parsing rule: %w", err)
	}
	out, err := rrule.FormatRule(r)
	if err != nil {
		return fmt.Errorf("formatting rule: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func formatMoment(m rrule.Moment) string {
	switch m.Kind() {
	case rrule.KindPlainDate:
		return fmt.Sprintf("%04d-%02d-%02d", m.Year(), m.Month(), m.Day())
	default:
		h, _ := m.Hour()
		mi, _ := m.Minute()
		s, _ := m.Second()
		base := fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d", m.Year(), m.Month(), m.Day(), h, mi, s)
		if zone, ok := m.Zone(); ok {
			return base + " " + zone
		}
		return base
	}
}
