package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/vitapick/internal/client/models"
	"github.com/spf13/cobra"
)

func newMeCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
			u, err := a.api.Me(ctx)
			if err != nil {
				return err
			}
			printUser(a.out, u)
			return nil
		}),
	}
	cmd.AddCommand(newMeUpdateCommand(o))
	return cmd
}

func newMeUpdateCommand(o *rootOptions) *cobra.Command {
	var (
		nickname, gender, birthDate string
		height, weight              float64
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		Args:  cobra.NoArgs,
	}
	f := cmd.Flags()
	f.StringVar(&nickname, "nickname", "", "display name")
	f.StringVar(&gender, "gender", "", "gender")
	f.StringVar(&birthDate, "birth-date", "", "birth date, YYYY-MM-DD")
	f.Float64Var(&height, "height", 0, "height in cm")
	f.Float64Var(&weight, "weight", 0, "weight in kg")

	cmd.RunE = o.run(func(ctx context.Context, a *App, cmd *cobra.Command, _ []string) error {
		var req models.UpdateUserRequest
		f := cmd.Flags()
		if f.Changed("nickname") {
			req.Nickname = &nickname
		}
		if f.Changed("gender") {
			req.Gender = &gender
		}
		if f.Changed("birth-date") {
			req.BirthDate = &birthDate
		}
		if f.Changed("height") {
			req.Height = &height
		}
		if f.Changed("weight") {
			req.Weight = &weight
		}

		u, err := a.api.UpdateMe(ctx, req)
		if err != nil {
			return err
		}
		printUser(a.out, u)
		return nil
	})
	return cmd
}

func newSettingsCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show notification settings",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, a *App, _ *cobra.Command, _ []string) error {
			s, err := a.api.NotificationSettings(ctx)
			if err != nil {
				return err
			}
			printSettings(a.out, s)
			return nil
		}),
	}
	cmd.AddCommand(newSettingsUpdateCommand(o))
	return cmd
}

func newSettingsUpdateCommand(o *rootOptions) *cobra.Command {
	var next models.NotificationSettings

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change notification settings",
		Args:  cobra.NoArgs,
	}
	f := cmd.Flags()
	f.BoolVar(&next.IntakeReminder, "intake-reminder", false, "daily intake reminder")
	f.StringVar(&next.ReminderTime, "reminder-time", "", "reminder time, HH:MM")
	f.BoolVar(&next.Announcement, "announcement", false, "service announcements")
	f.BoolVar(&next.Marketing, "marketing", false, "marketing messages")

	cmd.RunE = o.run(func(ctx context.Context, a *App, cmd *cobra.Command, _ []string) error {
		cur, err := a.api.NotificationSettings(ctx)
		if err != nil {
			return err
		}

		f := cmd.Flags()
		s := *cur
		if f.Changed("intake-reminder") {
			s.IntakeReminder = next.IntakeReminder
		}
		if f.Changed("reminder-time") {
			s.ReminderTime = next.ReminderTime
		}
		if f.Changed("announcement") {
			s.Announcement = next.Announcement
		}
		if f.Changed("marketing") {
			s.Marketing = next.Marketing
		}

		saved, err := a.api.UpdateNotificationSettings(ctx, s)
		if err != nil {
			return err
		}
		printSettings(a.out, saved)
		return nil
	})
	return cmd
}

func printUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "Email:     %s\n", u.Email)
	fmt.Fprintf(w, "Nickname:  %s\n", u.Nickname)
	if u.Gender != "" {
		fmt.Fprintf(w, "Gender:    %s\n", u.Gender)
	}
	if u.BirthDate != "" {
		fmt.Fprintf(w, "Birthdate: %s\n", u.BirthDate)
	}
	if u.Height > 0 {
		fmt.Fprintf(w, "Height:    %.1f cm\n", u.Height)
	}
	if u.Weight > 0 {
		fmt.Fprintf(w, "Weight:    %.1f kg\n", u.Weight)
	}
}

func printSettings(w io.Writer, s *models.NotificationSettings) {
	fmt.Fprintf(w, "Intake reminder: %s", onOff(s.IntakeReminder))
	if s.IntakeReminder && s.ReminderTime != "" {
		fmt.Fprintf(w, " at %s", s.ReminderTime)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Announcements:   %s\n", onOff(s.Announcement))
	fmt.Fprintf(w, "Marketing:       %s\n", onOff(s.Marketing))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
