package app

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/commstack/portal/mlog"
	"github.com/commstack/portal/model"
	"github.com/commstack/portal/services/mail"
	"github.com/commstack/portal/utils"
)

// every outgoing html body is rendered from one of these, so user
// supplied values like usernames and community names get escaped
var emailTemplates = template.Must(template.New("email_templates").Parse(`
{{define "welcome_verify_body"}}<h1>Welcome to Portal</h1><p>Please verify this email by checking this link: <a href="{{.Props.Link}}">{{.Props.Link}}</a></p>{{end}}
{{define "welcome_body"}}<h1>Welcome to Portal</h1>{{end}}
{{define "verify_body"}}<p>Please verify this email by checking this link: <a href="{{.Props.Link}}">{{.Props.Link}}</a></p>{{end}}
{{define "email_change_body"}}<h1>Email Changed</h1><p>Your email address of Portal has been changed from {{.Props.OldEmail}} to {{.Props.NewEmail}}</p>{{end}}
{{define "username_change_body"}}<h1>Username Changed</h1><p>Your username of Portal has been changed from {{.Props.OldUsername}} to {{.Props.NewUsername}}</p>{{end}}
{{define "password_change_body"}}<h1>Password Changed</h1><p>Your password of Portal has been changed by {{.Props.Method}}</p>{{end}}
{{define "password_reset_body"}}<p>Please reset password by checking this link: <a href="{{.Props.Link}}">{{.Props.Link}}</a></p>{{end}}
{{define "posts_digest_body"}}<p>{{.Props.CommunityName}} published {{.Props.PostCount}} new posts since this email was last sent. Please check our site: <a href="{{.Props.SiteURL}}">{{.Props.SiteURL}}</a></p>{{end}}
{{define "invite_body"}}<p>{{.Props.SenderName}} invited you to the {{.Props.CommunityName}} community. Please join by checking this link: <a href="{{.Props.Link}}">{{.Props.Link}}</a></p>{{end}}
`))

func renderEmailBody(templateName string, props map[string]interface{}) string {
	body := utils.NewHTMLTemplate(emailTemplates, templateName)
	for key, value := range props {
		body.Props[key] = value
	}
	return body.Render()
}

func emailBackend(config *model.Config) *mail.SesMailBackend {
	return mail.NewSesMailBackend(&config.EmailSettings)
}

func sendMail(mailData *mail.MailData, config *model.Config) *model.AppError {
	backend := emailBackend(config)
	return backend.SendMail(mailData)
}

func (a *App) SendWelcomeEmail(userId string, email string, verified bool, siteURL string) *model.AppError {
	mail := &mail.MailData{
		Sender:    *a.Config().EmailSettings.SupportEmail,
		Recipient: email,
		Subject:   "Welcome To Portal",
		HtmlBody:  "",
		TextBody:  "",
		CharSet:   "UTF-8",
	}

	if !verified {
		token, err := a.CreateVerifyEmailToken(userId, email)
		if err != nil {
			return err
		}
		link := fmt.Sprintf("%s/sign-up/verify?token=%s&email=%s", siteURL, token.Token, url.QueryEscape(email))

		mail.HtmlBody = renderEmailBody("welcome_verify_body", map[string]interface{}{"Link": link})
		mail.TextBody = "Welcome to Portal. Please verify this email by checking this link: " + link
	} else {
		mail.HtmlBody = renderEmailBody("welcome_body", nil)
		mail.TextBody = "Welcome to Portal"
	}

	if err := sendMail(mail, a.Config()); err != nil {
		return model.NewAppError("SendWelcomeEmail", "api.user.send_welcome_email.failed.error", nil, err.Error(), http.StatusInternalServerError)
	}

	return nil
}

func (a *App) SendVerifyEmail(userEmail, siteURL, token string) *model.AppError {
	link := fmt.Sprintf("%s/sign-up/verify?token=%s&email=%s", siteURL, token, url.QueryEscape(userEmail))
	htmlBody := renderEmailBody("verify_body", map[string]interface{}{"Link": link})
	textBody := "Please verify this email by checking this link: " + link

	mail := &mail.MailData{
		Sender:    *a.Config().EmailSettings.SupportEmail,
		Recipient: userEmail,
		Subject:   "Portal",
		HtmlBody:  htmlBody,
		TextBody:  textBody,
		CharSet:   "UTF-8",
	}

	if err := sendMail(mail, a.Config()); err != nil {
		return model.NewAppError("SendVerifyEmail", "api.user.send_verify_email.failed.error", nil, err.Error(), http.StatusInternalServerError)
	}

	return nil
}

func (a *App) SendEmailChangeEmail(oldEmail, newEmail, siteURL string) *model.AppError {
	htmlBody := renderEmailBody("email_change_body", map[string]interface{}{
		"OldEmail": oldEmail,
		"NewEmail": newEmail,
	})
	textBody := "Your email address of Portal has been changed from " + oldEmail + " to " + newEmail

	mail := &mail.MailData{
		Sender:    *a.Config().EmailSettings.SupportEmail,
		Recipient: newEmail,
		Subject:   "Portal",
		HtmlBody:  htmlBody,
		TextBody:  textBody,
		CharSet:   "UTF-8",
	}

	if err := sendMail(mail, a.Config()); err != nil {
		return model.NewAppError("SendEmailChangeEmail", "api.user.send_email_change_email.failed.error", nil, err.Error(), http.StatusInternalServerError)
	}

	return nil
}

func (a *App) SendChangeUsernameEmail(oldUsername, newUsername, email, siteURL string) *model.AppError {
	htmlBody := renderEmailBody("username_change_body", map[string]interface{}{
		"OldUsername": oldUsername,
		"NewUsername": newUsername,
	})
	textBody := "Your username of Portal has been changed from " + oldUsername + " to " + newUsername

	mail := &mail.MailData{
		Sender:    *a.Config().EmailSettings.SupportEmail,
		Recipient: email,
		Subject:   "Portal",
		HtmlBody:  htmlBody,
		TextBody:  textBody,
		CharSet:   "UTF-8",
	}

	if err := sendMail(mail, a.Config()); err != nil {
		return model.NewAppError("SendChangeUsernameEmail", "api.user.send_change_username_email.failed.error", nil, err.Error(), http.StatusInternalServerError)
	}

	return nil
}

func (a *App) SendPasswordChangeCompletedEmail(email, method, siteURL string) *model.AppError {
	htmlBody := renderEmailBody("password_change_body", map[string]interface{}{"Method": method})
	textBody := "Your password of Portal has been changed by " + method

	mail := &mail.MailData{
		Sender:    *a.Config().EmailSettings.SupportEmail,
		Recipient: email,
		Subject:   "Portal",
		HtmlBody:  htmlBody,
		TextBody:  textBody,
		CharSet:   "UTF-8",
	}

	if err := sendMail(mail, a.Config()); err != nil {
		return model.NewAppError("SendPasswordChangeCompletedEmail", "api.user.send_password_change_email.failed.error", nil, err.Error(), http.StatusInternalServerError)
	}

	return nil
}

func (a *App) SendPasswordResetEmail(email string, token *model.Token, siteURL string) *model.AppError {
	link := fmt.Sprintf("%s/reset-password/complete?token=%s", siteURL, url.QueryEscape(token.Token))

	mail := &mail.MailData{
		Sender:    *a.Config().EmailSettings.SupportEmail,
		Recipient: email,
		Subject:   "Portal",
		HtmlBody:  renderEmailBody("password_reset_body", map[string]interface{}{"Link": link}),
		TextBody:  "Please reset password by checking this link: " + link,
		CharSet:   "UTF-8",
	}

	if err := sendMail(mail, a.Config()); err != nil {
		return model.NewAppError("SendPasswordResetEmail", "api.user.send_password_reset_email.failed.error", nil, err.Error(), http.StatusInternalServerError)
	}

	return nil
}

func SendPostsDigestEmail(email, communityName, siteURL string, postCount int64, config *model.Config) *model.AppError {
	count := strconv.FormatInt(postCount, 10)
	htmlBody := renderEmailBody("posts_digest_body", map[string]interface{}{
		"CommunityName": communityName,
		"PostCount":     count,
		"SiteURL":       siteURL,
	})
	textBody := communityName + " published " + count + " new posts since this email was last sent. Please check our site: " + siteURL

	mail := &mail.MailData{
		Sender:    *config.EmailSettings.SupportEmail,
		Recipient: email,
		Subject:   "Portal",
		HtmlBody:  htmlBody,
		TextBody:  textBody,
		CharSet:   "UTF-8",
	}

	if err := sendMail(mail, config); err != nil {
		return model.NewAppError("SendPostsDigestEmail", "api.user.send_posts_digest_email.failed.error", nil, err.Error(), http.StatusInternalServerError)
	}

	return nil
}

// SendInviteEmails saves a TOKEN_TYPE_COMMUNITY_INVITATION token per
// address and mails each one a signup link carrying the token.
func (a *App) SendInviteEmails(community *model.Community, senderName string, senderUserId string, invites []string, siteURL string) {
	for _, invite := range invites {
		if len(invite) == 0 {
			continue
		}

		token := model.NewToken(
			TOKEN_TYPE_COMMUNITY_INVITATION,
			model.MapToJson(map[string]string{"communityId": community.Id, "email": invite}),
		)

		if err := a.Srv.Store.Token().Save(token); err != nil {
			mlog.Error("Failed to save the invite token", mlog.Err(err))
			continue
		}

		link := fmt.Sprintf("%s/signup_user_complete/?t=%s", siteURL, url.QueryEscape(token.Token))
		htmlBody := renderEmailBody("invite_body", map[string]interface{}{
			"SenderName":    senderName,
			"CommunityName": community.Name,
			"Link":          link,
		})
		textBody := senderName + " invited you to the " + community.Name + " community. Please join by checking this link: " + link

		mail := &mail.MailData{
			Sender:    *a.Config().EmailSettings.SupportEmail,
			Recipient: invite,
			Subject:   "Portal",
			HtmlBody:  htmlBody,
			TextBody:  textBody,
			CharSet:   "UTF-8",
		}

		if err := sendMail(mail, a.Config()); err != nil {
			mlog.Error("Failed to send invite email successfully ", mlog.Err(err))
		}
	}
}
