package collector_test

import (
	"context"
	"fmt"

	"github.com/pithecene-io/qasereport/collector"
	"github.com/pithecene-io/qasereport/config"
	"github.com/pithecene-io/qasereport/reportstore"
	"github.com/pithecene-io/qasereport/submit"
	"github.com/pithecene-io/qasereport/types"
)

// A TestMain hook records outcomes into Default as tests finish, then
// submits them once when the run ends.
func ExampleDefault() {
	defer collector.Default.Reset()

	_ = collector.Default.Add("TestLogin", true)
	_ = collector.Default.Add("TestCheckout", false, types.ResultMeta{CaseID: 42})

	cfg := config.Defaults()
	cfg.Mode = config.ModeReport
	out, err := submit.New(submit.Options{Config: cfg, Reports: reportstore.NewMemory()}).
		SubmitCollected(context.Background(), collector.Default)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out.Steps, out.Counts.Passed, out.Counts.Failed)
	// Output: [writing_report] 1 1
}
