package main

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/lead-funnel/internal/form"
)

var (
	submitEndpoint string
	submitTimeout  time.Duration
	submitFields   = map[string]*string{
		"name":    new(string),
		"email":   new(string),
		"phone":   new(string),
		"company": new(string),
		"message": new(string),
	}
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a lead through the contact form flow",
	Long: `Fill the contact form with the given flags and submit it.

The form is validated locally first; nothing is sent when a field is invalid.
The endpoint defaults to FORM_ENDPOINT.`,
	RunE: runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitEndpoint, "endpoint", "", "form endpoint (default $FORM_ENDPOINT)")
	f.DurationVar(&submitTimeout, "timeout", 0, "request timeout (default $FORM_TIMEOUT)")
	for _, name := range []string{"name", "email", "phone", "company", "message"} {
		f.StringVar(submitFields[name], name, "", "lead "+name)
	}
}

func runSubmit(cmd *cobra.Command, args []string) error {
	endpoint, timeout := submitEndpoint, submitTimeout
	if endpoint == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		endpoint = cfg.FormEndpoint
		if timeout == 0 {
			timeout = cfg.FormTimeout
		}
	}
	if endpoint == "" {
		return errors.New("no form endpoint: pass --endpoint or set FORM_ENDPOINT")
	}

	c := form.NewController(endpoint, timeout)
	for name, value := range submitFields {
		if err := c.SetField(name, *value); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	err := c.Submit(commandContext(cmd))
	switch {
	case errors.Is(err, form.ErrInvalidForm):
		errs := c.FieldErrors()
		names := make([]string, 0, len(errs))
		for name := range errs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%s: %s\n", name, errs[name])
		}
		return err
	case err != nil:
		log.WithError(c.Failure()).Warn("⚠️ Envio do formulário falhou")
		fmt.Fprintln(out, c.Message())
		return err
	}

	fmt.Fprintln(out, c.Message())
	c.Close()
	return nil
}
