package service

import (
	"context"
	"sort"

	"expensehub/models"

	"github.com/shopspring/decimal"
)

// CurrencyTotal 单一币种的合计与调用者份额
type CurrencyTotal struct {
	Currency string  `json:"currency"`
	Total    float64 `json:"total"`
	MyShare  float64 `json:"my_share"`
}

// Balance 与某个用户在某币种下的净额
type Balance struct {
	UserID   string  `json:"user_id"`
	Email    string  `json:"email"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// ItemSummary 账本汇总
type ItemSummary struct {
	ItemID    string          `json:"item_id"`
	ItemType  string          `json:"item_type"`
	Members   int             `json:"members"`
	Totals    []CurrencyTotal `json:"totals"`
	OwedToYou []Balance       `json:"owed_to_you"`
	YouOwe    []Balance       `json:"you_owe"`
}

// SummaryService 账本汇总统计
type SummaryService struct {
	participants *ParticipantService
	expenses     *ExpenseService
	items        *ItemService
}

// NewSummaryService 创建汇总服务
func NewSummaryService(items *ItemService, participants *ParticipantService, expenses *ExpenseService) *SummaryService {
	return &SummaryService{items: items, participants: participants, expenses: expenses}
}

// Summary 计算调用者在账本中的份额与往来余额
func (s *SummaryService) Summary(ctx context.Context, userID, itemID string) (*ItemSummary, error) {
	item, err := s.items.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	people, err := s.participants.List(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.List(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	members := make([]ParticipantDescriptor, 0, len(people))
	for _, p := range people {
		if !p.IsPending {
			members = append(members, p)
		}
	}
	return ComputeSummary(item, members, expenses, userID), nil
}

type balanceKey struct {
	userID   string
	currency string
}

// ComputeSummary 按分摊规则计算。members 为已注册成员（含拥有者）
func ComputeSummary(item *models.Item, members []ParticipantDescriptor, expenses []models.Expense, userID string) *ItemSummary {
	summary := &ItemSummary{
		ItemID:    item.ID,
		ItemType:  item.ItemType,
		Members:   len(members),
		Totals:    []CurrencyTotal{},
		OwedToYou: []Balance{},
		YouOwe:    []Balance{},
	}

	memberCount := decimal.NewFromInt(int64(len(members)))
	totals := map[string]decimal.Decimal{}
	shares := map[string]decimal.Decimal{}
	net := map[balanceKey]decimal.Decimal{}

	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		cur := e.Currency
		totals[cur] = totals[cur].Add(amount)
		if _, ok := shares[cur]; !ok {
			shares[cur] = decimal.Zero
		}

		if !item.IsShared() {
			shares[cur] = shares[cur].Add(amount)
			continue
		}

		switch e.SplitType {
		case models.SplitTypeDivided:
			if memberCount.IsZero() {
				continue
			}
			per := amount.Div(memberCount)
			shares[cur] = shares[cur].Add(per)
			if e.PaidBy == userID {
				for _, m := range members {
					if m.ID != userID {
						k := balanceKey{m.ID, cur}
						net[k] = net[k].Add(per)
					}
				}
			} else {
				k := balanceKey{e.PaidBy, cur}
				net[k] = net[k].Sub(per)
			}
		case models.SplitTypeAssigned:
			if e.AssignedTo == nil || *e.AssignedTo == "" {
				continue
			}
			assigned := *e.AssignedTo
			if assigned == userID {
				shares[cur] = shares[cur].Add(amount)
			}
			if e.PaidBy == userID && assigned != userID {
				k := balanceKey{assigned, cur}
				net[k] = net[k].Add(amount)
			} else if assigned == userID && e.PaidBy != userID {
				k := balanceKey{e.PaidBy, cur}
				net[k] = net[k].Sub(amount)
			}
		case models.SplitTypeSelected:
			selected := e.SelectedParticipants
			if len(selected) == 0 {
				continue
			}
			per := amount.Div(decimal.NewFromInt(int64(len(selected))))
			if selected.Contains(userID) {
				shares[cur] = shares[cur].Add(per)
			}
			if e.PaidBy == userID {
				for _, id := range selected {
					if id != userID {
						k := balanceKey{id, cur}
						net[k] = net[k].Add(per)
					}
				}
			} else if selected.Contains(userID) {
				k := balanceKey{e.PaidBy, cur}
				net[k] = net[k].Sub(per)
			}
		}
	}

	for cur, total := range totals {
		summary.Totals = append(summary.Totals, CurrencyTotal{
			Currency: cur,
			Total:    total.Round(2).InexactFloat64(),
			MyShare:  shares[cur].Round(2).InexactFloat64(),
		})
	}
	sort.Slice(summary.Totals, func(i, j int) bool {
		return summary.Totals[i].Currency < summary.Totals[j].Currency
	})

	emails := make(map[string]string, len(members))
	for _, m := range members {
		emails[m.ID] = m.Email
	}
	for k, amount := range net {
		amount = amount.Round(2)
		if amount.IsZero() {
			continue
		}
		b := Balance{UserID: k.userID, Email: emails[k.userID], Currency: k.currency}
		if amount.IsPositive() {
			b.Amount = amount.InexactFloat64()
			summary.OwedToYou = append(summary.OwedToYou, b)
		} else {
			b.Amount = amount.Neg().InexactFloat64()
			summary.YouOwe = append(summary.YouOwe, b)
		}
	}
	sortBalances(summary.OwedToYou)
	sortBalances(summary.YouOwe)
	return summary
}

func sortBalances(list []Balance) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].UserID != list[j].UserID {
			return list[i].UserID < list[j].UserID
		}
		return list[i].Currency < list[j].Currency
	})
}
