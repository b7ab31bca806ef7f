package cmd

import (
	"context"
	"fmt"
)

// credentials are the shared patron authentication flags.
type credentials struct {
	Username string `short:"u" help:"Patron username or barcode" required:""`
	Password string `short:"p" help:"Patron password or pin" required:""`
}

// LoginCmd represents the login command.
type LoginCmd struct {
	credentials
}

func (l *LoginCmd) Run() error {
	drv, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	session, err := login(ctx, drv, l.Username, l.Password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (id %s)\n", session.patron.DisplayName(), session.patron.ID)
	return nil
}

// FinesCmd represents the fines command.
type FinesCmd struct {
	credentials
}

func (f *FinesCmd) Run() error {
	drv, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	session, err := login(ctx, drv, f.Username, f.Password)
	if err != nil {
		return err
	}

	fees, err := drv.GetMyFines(ctx, session.patron)
	if err != nil {
		return err
	}
	if len(fees) == 0 {
		fmt.Println("No outstanding fees")
		return nil
	}

	total := 0
	for _, fee := range fees {
		fmt.Printf("%-30s %-12s %8s  %s\n", fee.Title, fee.Type,
			formatAmount(fee.Balance), formatDate(fee.Created))
		total += fee.Balance
	}
	fmt.Printf("Total: %s\n", formatAmount(total))
	return nil
}

// LoansCmd represents the loans command.
type LoansCmd struct {
	credentials
}

func (l *LoansCmd) Run() error {
	drv, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	session, err := login(ctx, drv, l.Username, l.Password)
	if err != nil {
		return err
	}

	loans, err := drv.GetMyTransactions(ctx, session.patron)
	if err != nil {
		return err
	}
	if len(loans) == 0 {
		fmt.Println("No current loans")
		return nil
	}

	for _, loan := range loans {
		renewals := fmt.Sprintf("%d/%d renewals", loan.RenewalCount, loan.RenewalLimit)
		fmt.Printf("%-12s %-30s due %s  %s\n", loan.ItemID, loan.Title,
			formatDate(loan.DueDate), renewals)
	}
	return nil
}

// HoldsCmd represents the holds listing command.
type HoldsCmd struct {
	credentials
}

func (h *HoldsCmd) Run() error {
	drv, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	session, err := login(ctx, drv, h.Username, h.Password)
	if err != nil {
		return err
	}

	holds, err := drv.GetMyHolds(ctx, session.patron)
	if err != nil {
		return err
	}
	if len(holds) == 0 {
		fmt.Println("No open holds")
		return nil
	}

	for _, hold := range holds {
		state := fmt.Sprintf("queue position %d", hold.Position)
		if hold.Available {
			state = "ready for pickup"
		}
		fmt.Printf("%-12s %-30s %-16s %s\n", hold.RequestID, hold.Title,
			hold.PickupLocation, state)
	}
	return nil
}

// RenewCmd represents the renew command.
type RenewCmd struct {
	credentials
	Items []string `arg:"" help:"Item ids to renew"`
}

func (r *RenewCmd) Run() error {
	drv, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	session, err := login(ctx, drv, r.Username, r.Password)
	if err != nil {
		return err
	}

	result, err := drv.RenewItems(ctx, session.patron, r.Items)
	if err != nil {
		return err
	}
	for _, id := range r.Items {
		item := result.PerItem[id]
		line := fmt.Sprintf("%-12s %s", id, message(item.SysMessage))
		if item.Success && item.DueDate != nil {
			line += " (due " + formatDate(item.DueDate) + ")"
		}
		fmt.Println(line)
	}
	return nil
}
