package main

import (
	"fmt"

	"github.com/fwojciec/offercrawl"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	if c.Name != "" && len(c.Domains) > 1 {
		err := offercrawl.Errorf(offercrawl.EINVALID, "--name can only be used with a single domain")
		fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
		return err
	}

	res := addCompanies(deps, c.Domains, c.Name)
	fmt.Fprintf(deps.Stdout, "Added %d companies (%d existing, %d invalid)\n", res.added, res.existing, res.invalid)
	if res.err != nil {
		return res.err
	}
	if res.added == 0 && res.invalid > 0 {
		return offercrawl.Errorf(offercrawl.EINVALID, "no valid domains")
	}
	return nil
}

type addResult struct {
	added    int
	existing int
	invalid  int
	err      error
}

// addCompanies registers each domain, skipping known and invalid ones. It
// stops at the first storage error.
func addCompanies(deps *Dependencies, domains []string, name string) addResult {
	var res addResult
	for _, domain := range domains {
		company := &offercrawl.Company{Domain: domain, Name: name}
		err := deps.Companies.CreateCompany(deps.Ctx, company)
		switch offercrawl.ErrorCode(err) {
		case "":
			res.added++
			fmt.Fprintf(deps.Stdout, "  added %s (%s)\n", company.Domain, company.ID)
		case offercrawl.ECONFLICT:
			res.existing++
		case offercrawl.EINVALID:
			res.invalid++
			fmt.Fprintf(deps.Stderr, "  skip %q: %s\n", domain, offercrawl.ErrorMessage(err))
		default:
			fmt.Fprintf(deps.Stderr, "error: %s\n", offercrawl.ErrorMessage(err))
			res.err = err
			return res
		}
	}
	return res
}
