package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

func clinicianCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clinician",
		Short: "Register or log in a clinician",
	}

	var in domain.ClinicianRegistrationInput
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a clinician on the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				rec, err := a.ctrl.SubmitClinicianRegistration(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd, rec)
			})
		},
	}
	registerCmd.Flags().StringVar(&in.ID, "id", "", "clinician id")
	registerCmd.Flags().StringVar(&in.Name, "name", "", "clinician name")
	registerCmd.Flags().StringVar(&in.Specialization, "specialization", "", "specialization")
	registerCmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")

	var id, name string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Check clinician credentials and list their patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				sess, err := a.ctrl.LoginClinician(ctx, id, name)
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string]any{
					"session":  sess,
					"patients": a.ctrl.Patients(),
				})
			})
		},
	}
	loginCmd.Flags().StringVar(&id, "id", "", "clinician id")
	loginCmd.Flags().StringVar(&name, "name", "", "registered clinician name")

	cmd.AddCommand(registerCmd, loginCmd)
	return cmd
}

func patientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Register or log in a patient",
	}

	var (
		in        domain.PatientRegistrationInput
		imagePath string
	)
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Render, publish and register a patient report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if imagePath != "" {
				img, err := os.ReadFile(imagePath)
				if err != nil {
					return fmt.Errorf("read image: %w", err)
				}
				in.Image = img
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				rec, err := a.ctrl.SubmitPatientRegistration(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd, rec)
			})
		},
	}
	registerCmd.Flags().StringVar(&in.ID, "id", "", "patient id")
	registerCmd.Flags().StringVar(&in.Name, "name", "", "patient name")
	registerCmd.Flags().StringVar(&in.Disease, "disease", "", "disease")
	registerCmd.Flags().StringVar(&in.Phone, "phone", "", "10 digit phone number")
	registerCmd.Flags().StringVar(&in.Age, "age", "", "age in years")
	registerCmd.Flags().StringVar(&imagePath, "image", "", "optional JPEG or PNG photo")

	var id, phone string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Check patient credentials and show the record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				sess, err := a.ctrl.LoginPatient(ctx, id, phone)
				if err != nil {
					return err
				}
				return printJSON(cmd, sess)
			})
		},
	}
	loginCmd.Flags().StringVar(&id, "id", "", "patient id")
	loginCmd.Flags().StringVar(&phone, "phone", "", "registered phone number")

	cmd.AddCommand(registerCmd, loginCmd)
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Locate or download patient reports",
	}

	var id, phone string
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Print the gateway URL of a patient's report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				cid, err := a.ctrl.OpenPatientReport(ctx, id, phone)
				if err != nil {
					return err
				}
				url, err := a.ctrl.ReportURL(cid)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			})
		},
	}
	openCmd.Flags().StringVar(&id, "id", "", "patient id")
	openCmd.Flags().StringVar(&phone, "phone", "", "registered phone number")

	var cid, out string
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Fetch a report by content identifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				doc, err := a.ctrl.DownloadReport(ctx, cid)
				if err != nil {
					return err
				}
				if out == "" {
					out = "Patient_Report_" + cid + ".pdf"
				}
				if err := os.WriteFile(out, doc, 0o600); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	downloadCmd.Flags().StringVar(&cid, "cid", "", "report content identifier")
	downloadCmd.Flags().StringVar(&out, "out", "", "output file")
	_ = downloadCmd.MarkFlagRequired("cid")

	cmd.AddCommand(openCmd, downloadCmd)
	return cmd
}
