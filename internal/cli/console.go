// filepath: internal/cli/console.go
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Astar201/DataBasePeople/internal/models"
	"github.com/Astar201/DataBasePeople/internal/services"
	"github.com/Astar201/DataBasePeople/internal/services/auth"
	"github.com/Astar201/DataBasePeople/internal/shared"

	"golang.org/x/term"
)

// Console is the interactive presentation layer. It only ever talks to
// the services and AccessControl; the repository and its connection stay
// out of reach.
type Console struct {
	Access   *auth.AccessControl
	Accounts services.AccountService
	Records  services.RecordService

	in      *bufio.Scanner
	inFD    int // fd of the input when it is a terminal
	inIsTTY bool
	out     io.Writer
}

func NewConsole(access *auth.AccessControl, accounts services.AccountService, records services.RecordService, in io.Reader, out io.Writer) *Console {
	c := &Console{
		Access:   access,
		Accounts: accounts,
		Records:  records,
		in:       bufio.NewScanner(in),
		out:      out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.inFD = int(f.Fd())
		c.inIsTTY = true
	}
	return c
}

// Run drives the login prompt and then the command loop until the
// operator quits or input ends.
func (c *Console) Run() error {
	sess, err := c.login()
	if err != nil || sess == nil {
		return err
	}

	fmt.Fprintf(c.out, "Logged in as %s (%s). Type 'help' for commands.\n", sess.Username, sess.Role)

	for {
		fmt.Fprintf(c.out, "%s> ", sess.Username)
		line, ok := c.readLine()
		if !ok {
			c.Access.Logout(sess)
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			c.Access.Logout(sess)
			return nil
		case "logout":
			c.Access.Logout(sess)
			next, err := c.login()
			if err != nil || next == nil {
				return err
			}
			sess = next
			fmt.Fprintf(c.out, "Logged in as %s (%s).\n", sess.Username, sess.Role)
		case "help":
			c.printHelp()
		case "accounts":
			c.listAccounts(sess)
		case "account":
			c.accountCommand(sess, fields[1:])
		case "records":
			c.listRecords(sess, "")
		case "search":
			c.listRecords(sess, strings.TrimSpace(strings.TrimPrefix(line, "search")))
		case "record":
			c.recordCommand(sess, fields[1:])
		case "image":
			c.exportImage(sess, fields[1:])
		default:
			fmt.Fprintf(c.out, "Unknown command %q. Type 'help'.\n", fields[0])
		}
	}
}

// login prompts for credentials until a session is established or input
// ends. Failures are reported generically; the console never reveals
// whether the username or the password was wrong.
func (c *Console) login() (*auth.Session, error) {
	for {
		fmt.Fprint(c.out, "Username: ")
		username, ok := c.readLine()
		if !ok {
			return nil, nil
		}
		password, ok := c.readPassword()
		if !ok {
			return nil, nil
		}

		sess, err := c.Access.Login(strings.TrimSpace(username), password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				fmt.Fprintln(c.out, "Invalid credentials.")
				continue
			}
			return nil, err
		}
		return sess, nil
	}
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

// readPassword reads without echo on a real terminal and falls back to a
// plain line read otherwise (tests, pipes).
func (c *Console) readPassword() (string, bool) {
	fmt.Fprint(c.out, "Password: ")
	if c.inIsTTY {
		pw, err := term.ReadPassword(c.inFD)
		fmt.Fprintln(c.out)
		if err != nil {
			return "", false
		}
		return string(pw), true
	}
	return c.readLine()
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `Commands:
  accounts                       list accounts (admin)
  account add <name> <role>      create an account (admin)
  account del <id>               delete an account (admin)
  account passwd <name>          reset an account password (admin)
  records                        list person records
  search <text>                  filter records by name, email or phone
  record add                     create a person record (prompts)
  record del <id>                delete a person record
  image <id> <file>              export a record's photo to a file
  logout                         switch operator
  quit                           exit
`)
}

func (c *Console) listAccounts(sess *auth.Session) {
	accounts, err := c.Accounts.List(sess)
	if err != nil {
		c.printErr(err)
		return
	}
	for _, a := range accounts {
		fmt.Fprintf(c.out, "%4d  %-20s %-6s created %s\n", a.ID, a.Username, a.Role, a.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(c.out, "%d account(s)\n", len(accounts))
}

func (c *Console) accountCommand(sess *auth.Session, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: account add|del|passwd ...")
		return
	}
	switch args[0] {
	case "add":
		if len(args) != 3 {
			fmt.Fprintln(c.out, "Usage: account add <name> <admin|user>")
			return
		}
		password, ok := c.readPassword()
		if !ok {
			return
		}
		acct, err := c.Accounts.Create(sess, args[1], password, models.Role(args[2]))
		if err != nil {
			if errors.Is(err, shared.ErrDuplicateUsername) {
				fmt.Fprintf(c.out, "Username %q is already taken.\n", args[1])
				return
			}
			c.printErr(err)
			return
		}
		fmt.Fprintf(c.out, "Created account %d (%s).\n", acct.ID, acct.Username)
	case "del":
		id, err := strconv.ParseInt(args[len(args)-1], 10, 64)
		if err != nil {
			fmt.Fprintln(c.out, "Usage: account del <id>")
			return
		}
		if err := c.Accounts.Delete(sess, id); err != nil {
			c.printErr(err)
			return
		}
		fmt.Fprintln(c.out, "Account deleted.")
	case "passwd":
		if len(args) != 2 {
			fmt.Fprintln(c.out, "Usage: account passwd <name>")
			return
		}
		password, ok := c.readPassword()
		if !ok {
			return
		}
		if err := c.Accounts.ResetPassword(sess, args[1], password); err != nil {
			c.printErr(err)
			return
		}
		fmt.Fprintln(c.out, "Password updated.")
	default:
		fmt.Fprintln(c.out, "Usage: account add|del|passwd ...")
	}
}

func (c *Console) listRecords(sess *auth.Session, query string) {
	records, err := c.Records.Search(sess, query)
	if err != nil {
		c.printErr(err)
		return
	}
	for _, r := range records {
		photo := " "
		if r.HasImage {
			photo = "*"
		}
		fmt.Fprintf(c.out, "%4d %s %-24s %-24s %-14s %4.1f  by %s\n",
			r.ID, photo, r.FullName, r.Email, r.Phone, r.Rating, r.AddedByUsername)
	}
	fmt.Fprintf(c.out, "%d record(s)\n", len(records))
}

func (c *Console) recordCommand(sess *auth.Session, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: record add|del ...")
		return
	}
	switch args[0] {
	case "add":
		c.addRecord(sess)
	case "del":
		if len(args) != 2 {
			fmt.Fprintln(c.out, "Usage: record del <id>")
			return
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Fprintln(c.out, "Usage: record del <id>")
			return
		}
		if err := c.Records.Delete(sess, id); err != nil {
			c.printErr(err)
			return
		}
		fmt.Fprintln(c.out, "Record deleted.")
	default:
		fmt.Fprintln(c.out, "Usage: record add|del ...")
	}
}

func (c *Console) addRecord(sess *auth.Session) {
	prompt := func(label string) (string, bool) {
		fmt.Fprintf(c.out, "%s: ", label)
		return c.readLine()
	}

	var cancelled bool
	read := func(label string) string {
		if cancelled {
			return ""
		}
		v, ok := prompt(label)
		if !ok {
			cancelled = true
		}
		return v
	}

	args := services.RecordCreateArgs{
		FullName:  read("Full name"),
		Email:     read("Email"),
		Phone:     read("Phone"),
		BirthDate: read("Birth date (YYYY-MM-DD)"),
		Job:       read("Job"),
	}
	ratingStr := read("Rating [0-10]")
	args.Description = read("Description")
	imagePath := read("Image file (optional)")
	if cancelled {
		return
	}

	if ratingStr != "" {
		rating, err := strconv.ParseFloat(strings.TrimSpace(ratingStr), 64)
		if err != nil {
			fmt.Fprintln(c.out, "Rating must be a number.")
			return
		}
		args.Rating = rating
	}

	if imagePath = strings.TrimSpace(imagePath); imagePath != "" {
		// Raw bytes only; decoding and thumbnailing stay out of the core.
		data, err := os.ReadFile(imagePath)
		if err != nil {
			fmt.Fprintf(c.out, "Could not read image: %v\n", err)
			return
		}
		args.Image = data
	}

	rec, err := c.Records.Create(sess, args)
	if err != nil {
		c.printErr(err)
		return
	}
	fmt.Fprintf(c.out, "Created record %d (%s).\n", rec.ID, rec.FullName)
}

func (c *Console) exportImage(sess *auth.Session, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: image <id> <file>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(c.out, "Usage: image <id> <file>")
		return
	}
	data, err := c.Records.GetImage(sess, id)
	if err != nil {
		c.printErr(err)
		return
	}
	if len(data) == 0 {
		fmt.Fprintln(c.out, "Record has no photo.")
		return
	}
	if err := os.WriteFile(args[1], data, 0644); err != nil {
		fmt.Fprintf(c.out, "Could not write file: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Wrote %d bytes to %s.\n", len(data), args[1])
}

func (c *Console) printErr(err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		fmt.Fprintln(c.out, "Not allowed: admin role required.")
	case errors.Is(err, services.ErrSelfDelete):
		fmt.Fprintln(c.out, "You cannot delete your own account.")
	case errors.Is(err, services.ErrLastAdmin):
		fmt.Fprintln(c.out, "Refusing to delete the last admin account.")
	case errors.Is(err, services.ErrNotFound):
		fmt.Fprintln(c.out, "No such entry.")
	case errors.Is(err, services.ErrValidation):
		fmt.Fprintf(c.out, "Invalid input: %v\n", err)
	default:
		fmt.Fprintf(c.out, "Operation failed: %v\n", err)
	}
}
