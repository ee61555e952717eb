package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
	"github.com/vncsmyrnk/tutorialvote/internal/core/ports"
)

type tutorialOutput struct {
	ID    int64                `json:"id"`
	State domain.ProposalState `json:"state"`
}

func newVoteCmd(e *env) *cobra.Command {
	var (
		tutorialID int64
		voter      string
	)
	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Cast a vote on a tutorial and update the search index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			log := e.logger(cfg)

			ledger, closeLedger, err := e.openLedger(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeLedger()

			index, err := e.openIndex(cfg)
			if err != nil {
				return err
			}

			currentVotes, err := ledger.ListVotes(cmd.Context(), tutorialID)
			if err != nil {
				return fmt.Errorf("failed to read current votes: %w", err)
			}

			svc := newSubmissionService(ledger, index, log)
			result, err := svc.Submit(cmd.Context(), ports.SubmitVoteInput{
				TutorialID:   tutorialID,
				Voter:        voter,
				CurrentVotes: currentVotes,
			})
			if printErr := e.printJSON(result); printErr != nil {
				return errors.Join(err, printErr)
			}
			return err
		},
	}
	cmd.Flags().Int64Var(&tutorialID, "tutorial", 0, "tutorial id")
	cmd.Flags().StringVar(&voter, "voter", "", "voter identity")
	_ = cmd.MarkFlagRequired("tutorial")
	_ = cmd.MarkFlagRequired("voter")
	return cmd
}

func newVotesCmd(e *env) *cobra.Command {
	var tutorialID int64
	cmd := &cobra.Command{
		Use:   "votes",
		Short: "List the votes on a tutorial",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			ledger, closeLedger, err := e.openLedger(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeLedger()

			votes, err := ledger.ListVotes(cmd.Context(), tutorialID)
			if err != nil {
				return err
			}
			return e.printJSON(votes)
		},
	}
	cmd.Flags().Int64Var(&tutorialID, "tutorial", 0, "tutorial id")
	_ = cmd.MarkFlagRequired("tutorial")
	return cmd
}

func newStateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the governance state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			ledger, closeLedger, err := e.openLedger(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeLedger()

			state, err := ledger.DaoState(cmd.Context())
			if err != nil {
				return err
			}
			return e.printJSON(state)
		},
	}
}

func newProposeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "propose <tutorial-id>",
		Short: "Register a tutorial proposal on the ledger mirror",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid tutorial id %q", args[0])
			}
			return e.withAdminLedger(cmd.Context(), func(l adminLedger) error {
				return l.ProposeTutorial(cmd.Context(), id)
			})
		},
	}
}

func newTutorialCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tutorial <tutorial-id>",
		Short: "Show the lifecycle state of a tutorial proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid tutorial id %q", args[0])
			}
			return e.withAdminLedger(cmd.Context(), func(l adminLedger) error {
				state, err := l.TutorialState(cmd.Context(), id)
				if err != nil {
					return err
				}
				return e.printJSON(tutorialOutput{ID: id, State: state})
			})
		},
	}
}

func newSetQuorumCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set-quorum <votes>",
		Short: "Set the number of votes that funds a tutorial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quorum, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || quorum <= 0 {
				return fmt.Errorf("quorum must be a positive integer, got %q", args[0])
			}
			return e.withAdminLedger(cmd.Context(), func(l adminLedger) error {
				return l.SetQuorum(cmd.Context(), quorum)
			})
		},
	}
}
