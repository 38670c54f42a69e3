package cmd

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"text-ingest/pkg/model"
	"text-ingest/pkg/service"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func NewAnalyzeCommand() *cobra.Command {
	var contentType string
	var base64Encoded bool
	var format string

	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "本地校验并统计一个文本文件，不写入存储",
		Args:  cobra.MaximumNArgs(1),

		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "打开文件失败")
				}
				defer f.Close()
				r = f
			}
			body, err := io.ReadAll(r)
			if err != nil {
				return errors.Wrap(err, "读取输入失败")
			}

			analysis, err := service.NewTextProcessor().Process(model.TextPayload{
				Body:          body,
				Base64Encoded: base64Encoded,
				ContentType:   contentType,
			})
			if err != nil {
				return err
			}
			return printAnalysis(cmd.OutOrStdout(), analysis, format)
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "text/plain", "声明的 Content-Type")
	cmd.Flags().BoolVar(&base64Encoded, "base64", false, "输入为 base64 编码")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "输出格式: json 或 table")
	return cmd
}

func printAnalysis(w io.Writer, a *model.TextAnalysis, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	case "table":
		return pterm.DefaultTable.
			WithHasHeader().
			WithWriter(w).
			WithData(pterm.TableData{
				{"Words", "Lines", "Bytes", "Chars", "Truncated"},
				{
					strconv.Itoa(a.WordCount),
					strconv.Itoa(a.LineCount),
					strconv.Itoa(a.DecodedBytes),
					strconv.Itoa(a.OriginalLength),
					strconv.FormatBool(a.Truncated),
				},
			}).
			Render()
	}
	return errors.Errorf("不支持的输出格式: %s", format)
}
