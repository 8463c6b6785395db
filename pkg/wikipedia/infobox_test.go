package wikipedia

import "testing"

const sampleInfoboxHTML = `
<div class="mw-parser-output">
<table class="infobox biography vcard">
<tbody>
<tr><th>アルベルト・アインシュタイン</th></tr>
<tr><th>生誕</th><td>1879年3月14日<sup>[1]</sup> ドイツ ウルム</td></tr>
<tr><th>死没</th><td>1955年4月18日 76歳没<br>アメリカ合衆国 プリンストン</td></tr>
<tr><th>国籍</th><td>ドイツ<sup>[注 2]</sup></td></tr>
<tr><td>画像のみの行</td></tr>
</tbody>
</table>
<p>本文。</p>
</div>`

func TestParseInfobox(t *testing.T) {
	ib, err := ParseInfobox(sampleInfoboxHTML, "ページ名")
	if err != nil {
		t.Fatalf("ParseInfobox failed: %v", err)
	}

	if ib.Name != "アルベルト・アインシュタイン" {
		t.Errorf("name: got %q", ib.Name)
	}
	if got := ib.BirthCell(); got != "1879年3月14日 ドイツ ウルム" {
		t.Errorf("birth cell: got %q", got)
	}
	if got := ib.DeathCell(); got != "1955年4月18日 76歳没 アメリカ合衆国 プリンストン" {
		t.Errorf("death cell: got %q", got)
	}
	if got := ib.Fields["国籍"]; got != "ドイツ" {
		t.Errorf("footnote sup must be dropped, got %q", got)
	}
}

func TestParseInfoboxAliases(t *testing.T) {
	html := `<table class="infobox"><tbody>
<tr><th>名前</th></tr>
<tr><th>誕生日</th><td>1900年1月1日</td></tr>
<tr><th>死亡日</th><td>1980年2月2日</td></tr>
</tbody></table>`

	ib, err := ParseInfobox(html, "ページ名")
	if err != nil {
		t.Fatalf("ParseInfobox failed: %v", err)
	}
	if got := ib.BirthCell(); got != "1900年1月1日" {
		t.Errorf("birth alias 誕生日: got %q", got)
	}
	if got := ib.DeathCell(); got != "1980年2月2日" {
		t.Errorf("death alias 死亡日: got %q", got)
	}
}

func TestParseInfoboxMissingTable(t *testing.T) {
	ib, err := ParseInfobox("<p>インフォボックスのないページ。</p>", "ページ名")
	if err != nil {
		t.Fatalf("ParseInfobox failed: %v", err)
	}
	if ib.Name != "ページ名" {
		t.Errorf("name must fall back to the page title, got %q", ib.Name)
	}
	if len(ib.Fields) != 0 {
		t.Errorf("expected no fields, got %v", ib.Fields)
	}
	if ib.BirthCell() != "" || ib.DeathCell() != "" {
		t.Errorf("cells must be empty without an infobox")
	}
}
