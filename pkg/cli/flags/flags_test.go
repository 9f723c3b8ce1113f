package flags_test

import (
	"testing"

	"github.com/geostack-dev/geostack/pkg/cli/flags"
	"github.com/geostack-dev/geostack/pkg/utils/timer"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTimingEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command func() *cobra.Command
		want    bool
		wantErr bool
	}{
		{
			name:    "nil command",
			command: func() *cobra.Command { return nil },
			wantErr: true,
		},
		{
			name: "flag false",
			command: func() *cobra.Command {
				cmd := &cobra.Command{}
				cmd.Flags().Bool(flags.TimingFlagName, false, "")

				return cmd
			},
		},
		{
			name: "flag true",
			command: func() *cobra.Command {
				cmd := &cobra.Command{}
				cmd.Flags().Bool(flags.TimingFlagName, true, "")

				return cmd
			},
			want: true,
		},
		{
			name: "persistent flag",
			command: func() *cobra.Command {
				cmd := &cobra.Command{}
				cmd.PersistentFlags().Bool(flags.TimingFlagName, true, "")

				return cmd
			},
			want: true,
		},
		{
			name: "inherited from parent",
			command: func() *cobra.Command {
				parent := &cobra.Command{}
				parent.PersistentFlags().Bool(flags.TimingFlagName, true, "")

				child := &cobra.Command{}
				parent.AddCommand(child)

				return child
			},
			want: true,
		},
		{
			name:    "flag not defined",
			command: func() *cobra.Command { return &cobra.Command{} },
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			enabled, err := flags.IsTimingEnabled(testCase.command())

			if testCase.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.want, enabled)
		})
	}
}

func TestMaybeTimer(t *testing.T) {
	t.Parallel()

	enabled := &cobra.Command{}
	enabled.Flags().Bool(flags.TimingFlagName, true, "")

	disabled := &cobra.Command{}
	disabled.Flags().Bool(flags.TimingFlagName, false, "")

	tmr := timer.New()

	assert.Nil(t, flags.MaybeTimer(nil, tmr))
	assert.Nil(t, flags.MaybeTimer(enabled, nil))
	assert.Nil(t, flags.MaybeTimer(disabled, tmr))
	assert.Nil(t, flags.MaybeTimer(&cobra.Command{}, tmr))
	assert.Equal(t, tmr, flags.MaybeTimer(enabled, tmr))
}

func TestOutputFormat(t *testing.T) {
	t.Parallel()

	format := flags.OutputText

	require.NoError(t, format.Set("JSON"))
	assert.Equal(t, flags.OutputJSON, format)
	assert.Equal(t, "json", format.String())
	assert.Equal(t, "format", format.Type())

	require.ErrorIs(t, format.Set("yaml"), flags.ErrInvalidOutputFormat)
	assert.Equal(t, flags.OutputJSON, format, "a rejected value leaves the format unchanged")
}
