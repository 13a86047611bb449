package service

import (
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{}}
}

// SendRegisterCode 发送注册验证码
func (s *EmailService) SendRegisterCode(email string) error {
	return s.sendCode("register", email, "注册验证", "注册验证码")
}

// SendResetCode 发送重置密码验证码
func (s *EmailService) SendResetCode(email string) error {
	return s.sendCode("reset", email, "重置密码", "密码重置验证码")
}

func (s *EmailService) sendCode(scope, email, action, subject string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}

	// 先写pending键，邮件发出后再转confirmed
	if err = s.rds.SetCodePending(scope, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(action, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject, html); err != nil {
		return err
	}

	if err = s.rds.ConfirmCodePending(scope, email); err != nil {
		// 确认失败时清掉pending键
		_ = s.rds.DeleteCodePending(scope, email)
		return err
	}
	return nil
}

// VerifyCode 校验验证码并一次性删除
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.rds.GetConfirmedCode(scope, email)
	if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteConfirmedCode(scope, email); err != nil {
		return false, err
	}
	return true, nil
}
