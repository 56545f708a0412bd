package models

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Item{},
		&ItemParticipant{},
		&PendingInvitation{},
		&Expense{},
		&ExpenseTemplate{},
		&UserItemBudget{},
	}
}
