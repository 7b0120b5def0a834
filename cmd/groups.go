package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studious/internal/session"
	"github.com/fakeyudi/studious/internal/store"
)

var groupSubject string

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List, create, join and leave study groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List study groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		groups, err := repo.ListGroups(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(groups) == 0 {
			fmt.Fprintln(out, "No study groups yet. Create one with 'studious groups create <name>'.")
			return nil
		}
		for _, g := range groups {
			mark := " "
			switch {
			case g.Owner:
				mark = "*"
			case g.Joined:
				mark = "+"
			}
			line := fmt.Sprintf("%s %s  %s  (%d members)", mark, g.ID, g.Name, g.Members)
			if g.Subject != "" {
				line += "  " + g.Subject
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a study group and join it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("group name is required")
		}

		repo, err := openStore()
		if err != nil {
			return err
		}
		defer repo.Close()

		g := &session.Group{ID: uuid.NewString(), Name: name, Subject: strings.TrimSpace(groupSubject)}
		if err := repo.CreateGroup(cmd.Context(), g); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created group %s (%s)\n", g.Name, g.ID)
		return nil
	},
}

var groupsJoinCmd = &cobra.Command{
	Use:   "join <group-id>",
	Short: "Join a study group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return membership(cmd, args[0], true)
	},
}

var groupsLeaveCmd = &cobra.Command{
	Use:   "leave <group-id>",
	Short: "Leave a study group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return membership(cmd, args[0], false)
	},
}

func membership(cmd *cobra.Command, id string, join bool) error {
	repo, err := openStore()
	if err != nil {
		return err
	}
	defer repo.Close()

	verb := "Left"
	if join {
		verb = "Joined"
		err = repo.JoinGroup(cmd.Context(), id)
	} else {
		err = repo.LeaveGroup(cmd.Context(), id)
	}
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("group %s not found", id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s group %s\n", verb, id)
	return nil
}

func init() {
	groupsCreateCmd.Flags().StringVar(&groupSubject, "subject", "", "Subject the group studies")
	groupsCmd.AddCommand(groupsListCmd, groupsCreateCmd, groupsJoinCmd, groupsLeaveCmd)
	rootCmd.AddCommand(groupsCmd)
}
