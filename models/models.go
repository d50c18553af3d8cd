package models

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&Office{},
		&User{},
		&Session{},
		&Lawyer{},
		&OfficeMember{},
		&CaseType{},
		&Template{},
		&TemplateStep{},
		&Case{},
		&CaseDocument{},
		&CaseTask{},
		&CaseCall{},
		&TimelineEvent{},
		&EventFile{},
		&ChatMessage{},
		&AuditLog{},
	}
}
