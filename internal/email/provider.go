package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет одно сообщение
	Send(email *Email) error

	// SendTemplate рендерит шаблон и отправляет результат
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}

// NoopProvider молча принимает письма. Используется, когда email.enabled = false.
type NoopProvider struct{}

func (NoopProvider) Send(*Email) error { return nil }

func (NoopProvider) SendTemplate([]string, string, string, TemplateData) error { return nil }
