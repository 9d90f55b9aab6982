package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	xyktypes "github.com/paw-chain/xyk/x/xyk/types"
)

const flagOutput = "output"

// PairAccountCmd prints the pool account and share token name of an asset pair.
func PairAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pair-account [asset-a] [asset-b]",
		Short: "Derive the pool account of an asset pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cast.ToUint32E(args[0])
			if err != nil {
				return fmt.Errorf("asset-a: %w", err)
			}
			b, err := cast.ToUint32E(args[1])
			if err != nil {
				return fmt.Errorf("asset-b: %w", err)
			}
			if a == b {
				return xyktypes.ErrCannotCreatePoolWithSameAssets.Wrapf("asset %d", a)
			}

			pair := xyktypes.NewAssetPair(xyktypes.AssetID(a), xyktypes.AssetID(b))
			account := pair.Account()
			fmt.Fprintf(cmd.OutOrStdout(), "account: %s\nhex: %X\nshare_token_name: %s\n",
				account, account.Bytes(), hex.EncodeToString(pair.Name()))
			return nil
		},
	}
}

// ParamsCmd prints the default module params.
func ParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the default xyk params",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := xyktypes.DefaultParams()

			output, _ := cmd.Flags().GetString(flagOutput)
			var (
				bz  []byte
				err error
			)
			switch output {
			case "yaml":
				bz, err = yaml.Marshal(params)
			case "json":
				bz, err = json.MarshalIndent(params, "", "  ")
				bz = append(bz, '\n')
			default:
				return fmt.Errorf("unsupported %s %q", flagOutput, output)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(bz)
			return err
		},
	}
	cmd.Flags().StringP(flagOutput, "o", "yaml", "output format (yaml|json)")
	return cmd
}
