package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/backup"
)

const minPasswordLength = 8

func (cli *commandLine) generateFees(month, from, to string) error {
	svc, err := cli.svc()
	if err != nil {
		return err
	}
	ctx := context.Background()
	if month != "" {
		from, to = month, month
	}
	if _, err = svc.fees.GenerateRange(ctx, core.Month(from), core.Month(to)); err != nil {
		return err
	}
	rows, err := svc.fees.MonthRows(ctx, core.Month(to))
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "generated fees up to %s: %d records\n", to, len(rows))
	return nil
}

func (cli *commandLine) exportBackup(path string) error {
	svc, err := cli.svc()
	if err != nil {
		return err
	}
	b, err := svc.backup.Export(context.Background())
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding backup")
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing backup")
	}
	fmt.Fprintf(cli.out, "backup written to %s\n", path)
	return nil
}

func (cli *commandLine) importBackup(path string) error {
	svc, err := cli.svc()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading backup")
	}
	var b backup.Bundle
	if err = json.Unmarshal(data, &b); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid backup file"))
	}
	keys, err := svc.backup.Import(context.Background(), b)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "restored: %s\n", strings.Join(keys, ", "))
	return nil
}

func (cli *commandLine) rollover() error {
	svc, err := cli.svc()
	if err != nil {
		return err
	}
	rolled, err := svc.attendance.Rollover(context.Background())
	if err != nil {
		return err
	}
	if rolled {
		fmt.Fprintf(cli.out, "started the checklist of %s\n", core.Today())
	} else {
		fmt.Fprintln(cli.out, "checklist already up to date")
	}
	return nil
}

func (cli *commandLine) hashPassword(pwd []byte) error {
	if len(pwd) < minPasswordLength {
		return errors.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword(pwd, bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	fmt.Fprintln(cli.out, string(hash))
	return nil
}
