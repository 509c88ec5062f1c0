package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/attendance"
	"github.com/Aastha-hs1d/JyotiPortal/core/backup"
	"github.com/Aastha-hs1d/JyotiPortal/core/fee"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// services are opened on demand: hashpassword and migrate do not touch the store.
type services struct {
	fees       *fee.Service
	attendance *attendance.Service
	backup     *backup.Service
}

type commandLine struct {
	conf     *core.Config
	out      io.Writer
	open     func() (*services, error)
	services *services
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  generatefees -month YYYY-MM | -from YYYY-MM -to YYYY-MM - generate the fee records of months")
	fmt.Fprintln(cli.out, "  export -out FILE - write a backup of students, fees and announcements")
	fmt.Fprintln(cli.out, "  import -in FILE - restore a backup, overwriting the stored data")
	fmt.Fprintln(cli.out, "  rollover - start today's attendance checklist if the day changed")
	fmt.Fprintln(cli.out, "  hashpassword - print the bcrypt hash of the admin password")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run postgres migrations (goose commands)")
}

func (cli *commandLine) svc() (*services, error) {
	if cli.services == nil {
		svcs, err := cli.open()
		if err != nil {
			return nil, err
		}
		cli.services = svcs
	}
	return cli.services, nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	generateFeesCmd := flag.NewFlagSet("generatefees", flag.ContinueOnError)
	generateFeesMonth := generateFeesCmd.String("month", "", "The month to generate, YYYY-MM.")
	generateFeesFrom := generateFeesCmd.String("from", "", "The first month of a range, YYYY-MM.")
	generateFeesTo := generateFeesCmd.String("to", "", "The last month of a range, YYYY-MM.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportOut := exportCmd.String("out", "", "The backup file to write.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importIn := importCmd.String("in", "", "The backup file to read.")

	for _, fs := range []*flag.FlagSet{generateFeesCmd, exportCmd, importCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "generatefees":
		if err := generateFeesCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *generateFeesMonth == "" && (*generateFeesFrom == "" || *generateFeesTo == "") {
			generateFeesCmd.Usage()
			return errHelp
		}
		return cli.generateFees(*generateFeesMonth, *generateFeesFrom, *generateFeesTo)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportBackup(*exportOut)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importIn == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importBackup(*importIn)
	case "rollover":
		return cli.rollover()
	case "hashpassword":
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.hashPassword(pwd)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
