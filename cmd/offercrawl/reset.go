package main

import (
	"fmt"

	"github.com/fwojciec/offercrawl"
)

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	n, err := deps.Companies.ResetStuckCompanies(deps.Ctx, c.OlderThan)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Reset %d stuck companies\n", n)

	if !c.Failed {
		return nil
	}
	failed, active := offercrawl.StatusFailed, true
	companies, err := deps.Companies.FindCompanies(deps.Ctx, offercrawl.CompanyFilter{Status: &failed, Active: &active})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}
	for _, co := range companies {
		if err := deps.Companies.UpdateCompanyStatus(deps.Ctx, co.ID, offercrawl.StatusPending, ""); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
			return err
		}
	}
	fmt.Fprintf(deps.Stdout, "Reset %d failed companies\n", len(companies))
	return nil
}
