package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/settleup/settleup/internal/calculator"
	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/money"
	"github.com/settleup/settleup/internal/storage"
)

// MemberBalance is one group member's net position: positive means they are
// owed, negative means they owe.
type MemberBalance struct {
	UserID string
	Name   string
	Net    money.Amount
}

// PairBalance is a netted debt between two members, annotated with display
// names for presentation.
type PairBalance struct {
	CreditorID   string
	CreditorName string
	DebtorID     string
	DebtorName   string
	Amount       money.Amount
}

// GroupBalances is the full balance picture for one group.
type GroupBalances struct {
	GroupID   string
	GroupName string
	// YourNet is the requesting user's net balance in the group.
	YourNet  money.Amount
	Members  []MemberBalance
	Pairwise []PairBalance
	// Warnings lists expenses whose splits failed reconciliation. They are
	// surfaced to the caller without blocking the view.
	Warnings []calculator.IntegrityWarning
}

// SettlementSuggestion is one proposed settling payment with display names.
type SettlementSuggestion struct {
	FromID   string
	FromName string
	ToID     string
	ToName   string
	Amount   money.Amount
}

// SettlementPlan is the minimized settlement list for a group.
type SettlementPlan struct {
	GroupID     string
	GroupName   string
	Suggestions []SettlementSuggestion
	// OriginalTransactions counts the nonzero pairwise debts before
	// minimization; TransactionsSaved is the reduction achieved.
	OriginalTransactions int
	TransactionsSaved    int
}

// GroupOverview is one group's line in a user's dashboard.
type GroupOverview struct {
	GroupID   string
	GroupName string
	YourNet   money.Amount
}

// Overview is a user's cross-group balance summary.
type Overview struct {
	TotalNet   money.Amount
	YouAreOwed money.Amount
	YouOwe     money.Amount
	Groups     []GroupOverview
}

// FriendBalance is the 1:1 net position with a single friend: positive means
// the friend owes the user.
type FriendBalance struct {
	FriendID   string
	FriendName string
	// GroupID is the hidden two-person group backing the friend ledger,
	// where direct 1:1 expenses and payments are recorded.
	GroupID string
	Net     money.Amount
}

// BalanceService computes balance views and settlement plans. It loads the
// scope's records from storage and hands them to the calculator package;
// all decisions about who owes whom live there.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// GroupBalances computes the balance view for one group.
func (s *BalanceService) GroupBalances(ctx context.Context, groupID, userID string) (*GroupBalances, error) {
	group, err := s.memberGroup(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.aggregate(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		slog.Warn("expense splits do not reconcile",
			"group_id", groupID,
			"expense_id", w.ExpenseID,
			"expense_total", w.ExpenseTotal.String(),
			"split_sum", w.SplitSum.String(),
		)
	}

	names, err := s.displayNames(ctx, res)
	if err != nil {
		return nil, err
	}

	out := &GroupBalances{
		GroupID:   group.ID,
		GroupName: group.Name,
		YourNet:   res.Net[userID],
		Warnings:  res.Warnings,
	}
	for _, id := range sortedKeys(res.Net) {
		out.Members = append(out.Members, MemberBalance{
			UserID: id,
			Name:   names[id],
			Net:    res.Net[id],
		})
	}
	for _, p := range res.Pairwise {
		out.Pairwise = append(out.Pairwise, PairBalance{
			CreditorID:   p.Creditor,
			CreditorName: names[p.Creditor],
			DebtorID:     p.Debtor,
			DebtorName:   names[p.Debtor],
			Amount:       p.Amount,
		})
	}
	return out, nil
}

// Settlements computes the minimized settlement plan for a group.
func (s *BalanceService) Settlements(ctx context.Context, groupID, userID string) (*SettlementPlan, error) {
	group, err := s.memberGroup(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.aggregate(ctx, groupID)
	if err != nil {
		return nil, err
	}

	suggestions, err := calculator.Minimize(res.Net)
	if err != nil {
		// A non-zero-sum vector means the scope's ledger is broken; abort
		// this group's plan rather than emit a partially wrong one.
		return nil, err
	}

	names, err := s.displayNames(ctx, res)
	if err != nil {
		return nil, err
	}

	plan := &SettlementPlan{
		GroupID:              group.ID,
		GroupName:            group.Name,
		OriginalTransactions: len(res.Pairwise),
	}
	for _, sg := range suggestions {
		plan.Suggestions = append(plan.Suggestions, SettlementSuggestion{
			FromID:   sg.From,
			FromName: names[sg.From],
			ToID:     sg.To,
			ToName:   names[sg.To],
			Amount:   sg.Amount,
		})
	}
	if saved := plan.OriginalTransactions - len(plan.Suggestions); saved > 0 {
		plan.TransactionsSaved = saved
	}
	return plan, nil
}

// Overview computes a user's cross-group summary. Groups are independent
// scopes, so they are aggregated concurrently; a failure in one group is
// logged and skipped so the rest of the dashboard still renders.
func (s *BalanceService) Overview(ctx context.Context, userID string) (*Overview, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Each goroutine writes only its own slot.
	lines := make([]*GroupOverview, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, group := range groups {
		g.Go(func() error {
			res, err := s.aggregate(ctx, group.ID)
			if err != nil {
				slog.Warn("skipping group in overview",
					"group_id", group.ID,
					"error", err,
				)
				return nil
			}
			lines[i] = &GroupOverview{
				GroupID:   group.ID,
				GroupName: group.Name,
				YourNet:   res.Net[userID],
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Overview{}
	for _, line := range lines {
		if line == nil {
			continue
		}
		out.Groups = append(out.Groups, *line)
		out.TotalNet += line.YourNet
		if line.YourNet > 0 {
			out.YouAreOwed += line.YourNet
		} else {
			out.YouOwe += -line.YourNet
		}
	}
	return out, nil
}

// Friend computes the 1:1 net balance between the user and a friend. The
// scope is every split and payment between exactly the two of them, across
// all groups, so a shared-apartment debt and a direct loan net together.
func (s *BalanceService) Friend(ctx context.Context, userID, friendID string) (*FriendBalance, error) {
	friend, err := s.store.GetUserByID(ctx, friendID)
	if err != nil {
		return nil, err
	}
	// The hidden group exists so the client has somewhere to record direct
	// 1:1 expenses; it contributes its records like any other group.
	group, err := s.store.GetOrCreateFriendGroup(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}

	details, err := s.store.ListSplitsBetweenUsers(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPaymentsBetweenUsers(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}

	splits := make([]calculator.SplitRecord, 0, len(details))
	for _, d := range details {
		splits = append(splits, calculator.SplitRecord{
			ExpenseID:     d.ExpenseID,
			PayerID:       d.PayerID,
			ParticipantID: d.ParticipantID,
			AmountOwed:    d.Amount,
			ExpenseTotal:  d.ExpenseTotal,
			Deleted:       d.Deleted,
		})
	}

	// Warnings are discarded here: this scope sees only the pair's slice of
	// each expense, so split sums cannot reconcile against expense totals.
	res := calculator.AggregateBalances(splits, toPaymentRecords(payments))
	return &FriendBalance{
		FriendID:   friend.ID,
		FriendName: friend.Name,
		GroupID:    group.ID,
		Net:        res.Net[userID],
	}, nil
}

// aggregate loads a group's records and runs the balance engine over them.
func (s *BalanceService) aggregate(ctx context.Context, groupID string) (calculator.Result, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return calculator.Result{}, err
	}
	payments, err := s.store.ListPaymentsByGroup(ctx, groupID)
	if err != nil {
		return calculator.Result{}, err
	}
	return calculator.AggregateBalances(toSplitRecords(expenses), toPaymentRecords(payments)), nil
}

func toSplitRecords(expenses []*models.Expense) []calculator.SplitRecord {
	var records []calculator.SplitRecord
	for _, e := range expenses {
		for _, sp := range e.Splits {
			records = append(records, calculator.SplitRecord{
				ExpenseID:     e.ID,
				PayerID:       e.PayerID,
				ParticipantID: sp.UserID,
				AmountOwed:    sp.Amount,
				ExpenseTotal:  e.Amount,
				Deleted:       e.Deleted,
			})
		}
	}
	return records
}

func toPaymentRecords(payments []*models.Payment) []calculator.PaymentRecord {
	var records []calculator.PaymentRecord
	for _, p := range payments {
		records = append(records, calculator.PaymentRecord{
			PayerID:    p.PayerID,
			ReceiverID: p.ReceiverID,
			Amount:     p.Amount,
			Status:     string(p.Status),
		})
	}
	return records
}

// displayNames fetches display names for everyone in the result.
func (s *BalanceService) displayNames(ctx context.Context, res calculator.Result) (map[string]string, error) {
	ids := sortedKeys(res.Net)
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for id, u := range users {
		names[id] = u.Name
	}
	return names, nil
}

func (s *BalanceService) memberGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Deleted {
		return nil, storage.ErrNotFound
	}
	m, err := s.store.GetMembership(ctx, groupID, userID)
	if err != nil || !m.IsActive {
		return nil, ErrNotMember
	}
	return group, nil
}
