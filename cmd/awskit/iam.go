package main

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cloudops-tools/awskit/pkg/iam"
)

var (
	userTags     map[string]string
	iamPolicy    iam.Policy
	iamRole      iam.Role
	documentPath string
)

func addIAMCommands(root *cobra.Command) {
	iamCmd := &cobra.Command{
		Use:   "iam",
		Short: "Manage IAM users, policies and roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	userCmd := &cobra.Command{
		Use:     "user NAME",
		Short:   "Create a user, or replace the tags of an existing one",
		Example: "awskit iam user etl-runner --tag team=data",
		Args:    cobra.ExactArgs(1),
		RunE:    runIAMUser,
	}
	userCmd.Flags().StringToStringVar(&userTags, "tag", nil, "user tags as key=value")

	policyCmd := &cobra.Command{
		Use:     "policy create|delete NAME",
		Short:   "Create or delete a managed policy",
		Example: "awskit iam policy create read-events --document policy.json",
		Args:    cobra.ExactArgs(2),
		RunE:    runIAMPolicy,
	}
	policyCmd.Flags().StringVar(&documentPath, "document", "", "file holding the policy document, required to create")
	policyCmd.Flags().StringVar(&iamPolicy.Path, "path", "", "policy path")
	policyCmd.Flags().StringVar(&iamPolicy.Description, "description", "", "policy description")
	policyCmd.Flags().StringVar(&iamPolicy.ARN, "arn", "", "policy ARN, required to delete")

	roleCmd := &cobra.Command{
		Use:     "role create|delete NAME",
		Short:   "Create a role with its policies attached, or detach them and delete it",
		Example: "awskit iam role create emr-runner --document trust.json --policy-arn arn:aws:iam::aws:policy/AmazonS3ReadOnlyAccess",
		Args:    cobra.ExactArgs(2),
		RunE:    runIAMRole,
	}
	roleCmd.Flags().StringVar(&documentPath, "document", "", "file holding the assume role policy document, required to create")
	roleCmd.Flags().StringVar(&iamRole.Path, "path", "", "role path")
	roleCmd.Flags().StringVar(&iamRole.Description, "description", "", "role description")
	roleCmd.Flags().StringSliceVar(&iamRole.PolicyARNs, "policy-arn", nil, "managed policies to attach")

	iamCmd.AddCommand(userCmd, policyCmd, roleCmd)
	root.AddCommand(iamCmd)
}

// readDocument loads a policy document. Creating requires one, deleting
// ignores it.
func readDocument(op iam.Operation, path string) (string, error) {
	if op != iam.OpCreate {
		return "", nil
	}
	if path == "" {
		return "", errors.New("--document is required to create")
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to read policy document %s", path)
	}
	return string(data), nil
}

func runIAMUser(cmd *cobra.Command, args []string) error {
	client, err := iam.NewClient(logger, awsOpts, provider)
	if err != nil {
		return err
	}
	user, err := client.CreateOrUpdateUser(rootCtx, args[0], userTags)
	if err != nil {
		return err
	}
	return printJSON(user)
}

func runIAMPolicy(cmd *cobra.Command, args []string) error {
	op := iam.Operation(args[0])
	iamPolicy.Name = args[1]
	document, err := readDocument(op, documentPath)
	if err != nil {
		return err
	}
	iamPolicy.Document = document

	client, err := iam.NewClient(logger, awsOpts, provider)
	if err != nil {
		return err
	}
	arn, err := client.ManagePolicy(rootCtx, iamPolicy, op)
	if err != nil {
		return err
	}
	return printJSON(map[string]string{"arn": arn})
}

func runIAMRole(cmd *cobra.Command, args []string) error {
	op := iam.Operation(args[0])
	iamRole.Name = args[1]
	document, err := readDocument(op, documentPath)
	if err != nil {
		return err
	}
	iamRole.AssumeRolePolicyDocument = document

	client, err := iam.NewClient(logger, awsOpts, provider)
	if err != nil {
		return err
	}
	return client.ManageRole(rootCtx, iamRole, op)
}
