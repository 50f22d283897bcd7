package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks everything except the Telegram section, which only the
// commands that talk to the Bot API need.
func (c Config) Validate() error {
	var problems []error
	for _, section := range []struct {
		prefix string
		value  any
	}{
		{"server", c.Server},
		{"store", c.Store},
		{"observability", c.Observability},
	} {
		if err := validateSection(section.prefix, section.value); err != nil {
			problems = append(problems, err)
		}
	}
	return mergeProblems(problems)
}

// ValidateTelegram checks the Telegram section.
func (c Config) ValidateTelegram() error {
	return mergeProblems([]error{validateSection("telegram", c.Telegram)})
}

// ValidateWebhook additionally requires a public URL for setWebhook.
func (c Config) ValidateWebhook() error {
	if err := c.ValidateTelegram(); err != nil {
		return err
	}
	if c.Telegram.WebhookURL == "" {
		return &engine.ConfigurationError{Keys: []string{"telegram.webhook_url"}, Reason: "required"}
	}
	return nil
}

func validateSection(prefix string, value any) error {
	err := validatorInstance().Struct(value)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &engine.ConfigurationError{Keys: []string{prefix}, Reason: err.Error()}
	}
	keys := make([]string, 0, len(verrs))
	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(prefix, fe.Namespace())
		keys = append(keys, key)
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		reasons = append(reasons, fmt.Sprintf("%s (%s)", key, reason))
	}
	return &engine.ConfigurationError{Keys: keys, Reason: "invalid values: " + strings.Join(reasons, ", ")}
}

// fieldKey turns "StoreConfig.redis_url" into "store.redis_url".
func fieldKey(prefix, namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		namespace = namespace[idx+1:]
	}
	return prefix + "." + namespace
}

func mergeProblems(problems []error) error {
	var keys, reasons []string
	for _, p := range problems {
		if p == nil {
			continue
		}
		var cfgErr *engine.ConfigurationError
		if errors.As(p, &cfgErr) {
			keys = append(keys, cfgErr.Keys...)
			reasons = append(reasons, cfgErr.Reason)
			continue
		}
		reasons = append(reasons, p.Error())
	}
	if len(keys) == 0 && len(reasons) == 0 {
		return nil
	}
	sort.Strings(keys)
	return &engine.ConfigurationError{Keys: keys, Reason: strings.Join(reasons, "; ")}
}
