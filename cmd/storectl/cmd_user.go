package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/junimo-store/internal/lib/validate"
	"github.com/magabrotheeeer/junimo-store/internal/models"
	"github.com/magabrotheeeer/junimo-store/internal/services/user"
)

var newUser models.DummyUser

// createUserCmd создаёт учётную запись
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account with any role",
	Long: `Create a user directly in the database.

Used to bootstrap the first administrator, since the public
registration endpoint always creates clients.`,
	RunE: runCreateUser,
}

func init() {
	fl := createUserCmd.Flags()
	fl.StringVar(&newUser.RUN, "run", "", "RUN, e.g. 12.345.678-5")
	fl.StringVar(&newUser.Email, "email", "", "Email")
	fl.StringVar(&newUser.Password, "password", "", "Password")
	fl.StringVar(&newUser.Role, "role", models.RoleAdmin, "Role: Administrador, Vendedor or Cliente")
	fl.StringVar(&newUser.FirstName, "first-name", "", "First name")
	fl.StringVar(&newUser.LastName, "last-name", "", "Last name")
	fl.StringVar(&newUser.Phone, "phone", "", "Phone")
	for _, name := range []string{"run", "email", "password", "first-name", "last-name"} {
		_ = createUserCmd.MarkFlagRequired(name)
	}
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	newUser.Role = models.NormalizeRole(newUser.Role)
	if err := validate.New().Struct(newUser); err != nil {
		return fmt.Errorf("invalid user: %s", validate.Message(err))
	}

	ctx, cancel := withTimeout(cmd)
	defer cancel()

	db, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	u, err := user.New(db, log).CreateUser(ctx, newUser)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) as %s\n", u.Email, u.RUN, u.Role)
	return nil
}
