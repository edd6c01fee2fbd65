package dto

// SideEffectWarning - побочный эффект (уведомление, запись журнала), который не выполнился.
// Основное изменение состояния при этом уже зафиксировано и не откатывается.
type SideEffectWarning struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
	Error  string `json:"error"`
}

type SideEffectReport struct {
	Warnings []SideEffectWarning `json:"warnings,omitempty"`
}

func (r *SideEffectReport) Add(kind, target string, err error) {
	r.Warnings = append(r.Warnings, SideEffectWarning{
		Kind:   kind,
		Target: target,
		Error:  err.Error(),
	})
}

func (r *SideEffectReport) Merge(other SideEffectReport) {
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// HasFailures сообщает, были ли сбои побочных эффектов.
func (r SideEffectReport) HasFailures() bool {
	return len(r.Warnings) > 0
}
