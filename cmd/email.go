package cmd

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type SendEmailConfig struct {
	To             string
	From           string
	Year           int
	DryRun         bool
	SMTPUsername   string
	SMTPPassword   string
	SendgridApiKey string
}

var emailCmd = &cobra.Command{
	Use:   "email <address> [year]",
	Short: "Emails the wrapped report",
	Long: `Generates the wrapped report for the given year (default: the current
year) and emails it. Uses SendGrid when sendgrid_api_key is configured,
otherwise SMTP via Gmail with smtp_username and smtp_password.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		year, err := yearFromArgs(args[1:])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		config := SendEmailConfig{
			To:             args[0],
			From:           viper.GetString("from"),
			Year:           year,
			DryRun:         viper.GetBool("dryRun"),
			SMTPUsername:   viper.GetString("smtp_username"),
			SMTPPassword:   viper.GetString("smtp_password"),
			SendgridApiKey: viper.GetString("sendgrid_api_key"),
		}
		err = sendEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var from string
	emailCmd.Flags().StringVar(&from, "from", "", "From email address")
	emailCmd.MarkFlagRequired("from")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))
}

func sendEmail(config SendEmailConfig) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := generateWrapped(db, config.Year)
	if err != nil {
		return err
	}

	body, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	subject := fmt.Sprintf("Your %d Wrapped", config.Year)

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	if config.SendgridApiKey != "" {
		return sendWithSendgrid(config, subject, string(body))
	}
	return sendWithSmtp(config, subject, string(body))
}

func sendWithSendgrid(config SendEmailConfig, subject, body string) error {
	from := mail.NewEmail("wrapped-tools", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, body, "<pre>"+body+"</pre>")
	client := sendgrid.NewSendClient(config.SendgridApiKey)
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	return nil
}

func sendWithSmtp(config SendEmailConfig, subject, body string) error {
	if config.SMTPUsername == "" || config.SMTPPassword == "" {
		return fmt.Errorf("smtp_username and smtp_password must be set in order to send emails")
	}

	msg := "From: wrapped-tools <" + config.From + ">\r\n" +
		"To: " + config.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body

	auth := smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, "smtp.gmail.com")
	if err := smtp.SendMail("smtp.gmail.com:587", auth, config.From, []string{config.To}, []byte(msg)); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	return nil
}
