package router

import "testing"

func TestURL(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		want    string
		wantErr bool
	}{
		{
			name:   "class list",
			target: Target{PageName: PageClassList},
			want:   "/coach/classes",
		},
		{
			name:   "channel root",
			target: Target{PageName: PageTopicItemList, Params: Params{ClassID: "c1", ChannelID: "ch1"}},
			want:   "/coach/c1/reports/ch1",
		},
		{
			name:   "topic",
			target: Target{PageName: PageTopicItemList, Params: Params{ClassID: "c1", ChannelID: "ch1", TopicID: "t1"}},
			want:   "/coach/c1/reports/ch1/topics/t1",
		},
		{
			name:   "learner list",
			target: Target{PageName: PageItemLearnerList, Params: Params{ClassID: "c1", ChannelID: "ch1", ContentID: "e1"}},
			want:   "/coach/c1/reports/ch1/items/e1/learners",
		},
		{
			name:   "export",
			target: Target{PageName: PageTopicExport, Params: Params{ClassID: "c1", ChannelID: "ch1", TopicID: "t1"}},
			want:   "/coach/c1/reports/ch1/topics/t1/export.xlsx",
		},
		{
			name:   "ids are escaped",
			target: Target{PageName: PageTopicItemList, Params: Params{ClassID: "a/b", ChannelID: "ch 1", TopicID: "t?"}},
			want:   "/coach/a%2Fb/reports/ch%201/topics/t%3F",
		},
		{
			name:    "learner list without content id",
			target:  Target{PageName: PageItemLearnerList, Params: Params{ClassID: "c1", ChannelID: "ch1"}},
			wantErr: true,
		},
		{
			name:    "topic without class",
			target:  Target{PageName: PageTopicItemList, Params: Params{ChannelID: "ch1"}},
			wantErr: true,
		},
		{
			name:    "unknown page",
			target:  Target{PageName: "NOPE"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := URL(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("URL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMustURLPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustURL() did not panic on an incomplete target")
		}
	}()
	MustURL(Target{PageName: PageItemLearnerList})
}
